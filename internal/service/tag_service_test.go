package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

func TestTagCreateAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.tags.Create(ctx, "golang")
	require.NoError(t, err)
	require.NotEmpty(t, tag.ID)

	_, err = env.tags.Create(ctx, "golang")
	require.ErrorIs(t, err, appErr.ErrConflict)

	_, err = env.tags.Create(ctx, "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestTagDeleteInUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	article, err := env.articles.CreateFromAPIObject(ctx, ArticleAPIObject{URL: "https://example.com/d", Title: "D"})
	require.NoError(t, err)

	tags, err := env.articles.UpdateTags(ctx, article.ID, []string{"keep"})
	require.NoError(t, err)

	err = env.tags.Delete(ctx, tags[0].ID)
	require.ErrorIs(t, err, appErr.ErrConflict)

	_, err = env.articles.UpdateTags(ctx, article.ID, nil)
	require.NoError(t, err)
	require.NoError(t, env.tags.Delete(ctx, tags[0].ID))
}

func TestEnsureByNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	existing, err := env.tags.Create(ctx, "old")
	require.NoError(t, err)

	tags, err := env.tags.EnsureByNames(ctx, []string{"new", "old"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	require.Equal(t, "new", tags[0].Name)
	require.Equal(t, existing.ID, tags[1].ID)

	all, err := env.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}
