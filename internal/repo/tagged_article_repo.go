package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/readlater/internal/model"
)

type TaggedArticleRepo struct {
	db *sql.DB
}

func NewTaggedArticleRepo(db *sql.DB) *TaggedArticleRepo {
	return &TaggedArticleRepo{db: db}
}

func (r *TaggedArticleRepo) Add(ctx context.Context, tagged *model.TaggedArticle) error {
	data := map[string]interface{}{
		"tag_id":     tagged.TagID,
		"article_id": tagged.ArticleID,
		"extra":      tagged.Extra,
		"ctime":      tagged.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("tagged_articles", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TaggedArticleRepo) DeleteByArticle(ctx context.Context, articleID string) error {
	where := map[string]interface{}{"article_id": articleID}
	sqlStr, args, err := builder.BuildDelete("tagged_articles", where)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TaggedArticleRepo) ListTagIDsByArticle(ctx context.Context, articleID string) ([]string, error) {
	where := map[string]interface{}{"article_id": articleID}
	return r.listIDs(ctx, where, "tag_id")
}

func (r *TaggedArticleRepo) ListArticleIDsByTag(ctx context.Context, tagID string) ([]string, error) {
	where := map[string]interface{}{"tag_id": tagID}
	return r.listIDs(ctx, where, "article_id")
}

func (r *TaggedArticleRepo) listIDs(ctx context.Context, where map[string]interface{}, field string) ([]string, error) {
	sqlStr, args, err := builder.BuildSelect("tagged_articles", where, []string{field})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
