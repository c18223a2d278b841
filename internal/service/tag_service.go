package service

import (
	"context"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
	"github.com/xxxsen/readlater/internal/pkg/timeutil"
	"github.com/xxxsen/readlater/internal/repo"
)

type TagService struct {
	tags   *repo.TagRepo
	tagged *repo.TaggedArticleRepo
}

func NewTagService(tags *repo.TagRepo, tagged *repo.TaggedArticleRepo) *TagService {
	return &TagService{tags: tags, tagged: tagged}
}

func (s *TagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	tag := &model.Tag{
		ID:    newID(),
		Name:  name,
		Ctime: now,
		Mtime: now,
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		if isUniqueViolation(err) {
			return nil, appErr.ErrConflict
		}
		return nil, err
	}
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) ListByIDs(ctx context.Context, ids []string) ([]model.Tag, error) {
	return s.tags.ListByIDs(ctx, ids)
}

func (s *TagService) Delete(ctx context.Context, tagID string) error {
	ids, err := s.tagged.ListArticleIDsByTag(ctx, tagID)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return appErr.ErrConflict
	}
	return s.tags.Delete(ctx, tagID)
}

// EnsureByNames returns tags for every name, creating the missing ones. The
// result preserves the input order.
func (s *TagService) EnsureByNames(ctx context.Context, names []string) ([]model.Tag, error) {
	result := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tags.GetByName(ctx, name)
		if err == nil {
			result = append(result, *tag)
			continue
		}
		if !appErr.IsNotFound(err) {
			return nil, err
		}
		created, err := s.Create(ctx, name)
		if err != nil {
			if !appErr.IsConflict(err) {
				return nil, err
			}
			// lost the create race, the tag exists now
			created, err = s.tags.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
		}
		result = append(result, *created)
	}
	return result, nil
}
