package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

var articleFields = []string{"id", "title", "url", "processed", "origin_id", "status", "extra", "ctime", "mtime"}

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

func (r *ArticleRepo) Create(ctx context.Context, article *model.Article) error {
	data := map[string]interface{}{
		"id":        article.ID,
		"title":     article.Title,
		"url":       article.URL,
		"processed": boolToInt(article.Processed),
		"origin_id": article.OriginID,
		"status":    article.Status,
		"extra":     article.Extra,
		"ctime":     article.Ctime,
		"mtime":     article.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("articles", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ArticleRepo) GetByID(ctx context.Context, articleID string) (*model.Article, error) {
	return r.getOne(ctx, map[string]interface{}{"id": articleID})
}

func (r *ArticleRepo) GetByURL(ctx context.Context, url string) (*model.Article, error) {
	return r.getOne(ctx, map[string]interface{}{"url": url})
}

func (r *ArticleRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Article, error) {
	sqlStr, args, err := builder.BuildSelect("articles", where, articleFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanArticle(rows)
}

func (r *ArticleRepo) List(ctx context.Context, since int64, limit, offset uint) ([]model.Article, error) {
	where := map[string]interface{}{
		"_orderby": "mtime desc",
	}
	if since > 0 {
		where["mtime >="] = since
	}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("articles", where, articleFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	articles := make([]model.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

func (r *ArticleRepo) Update(ctx context.Context, article *model.Article) error {
	where := map[string]interface{}{
		"id": article.ID,
	}
	update := map[string]interface{}{
		"title":     article.Title,
		"processed": boolToInt(article.Processed),
		"origin_id": article.OriginID,
		"status":    article.Status,
		"extra":     article.Extra,
		"mtime":     article.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("articles", where, update)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

// UpdateStatusGuarded applies a status write only when the stored mtime is
// not newer than the mtime the caller last observed. Returns false without
// touching the row otherwise.
func (r *ArticleRepo) UpdateStatusGuarded(ctx context.Context, articleID string, status int, mtime, observedMtime int64) (bool, error) {
	const query = `
		UPDATE articles
		SET status = ?, mtime = ?
		WHERE id = ? AND mtime <= ?
	`
	res, err := r.db.ExecContext(ctx, query, status, mtime, articleID, observedMtime)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateStatusIf moves status to toStatus only when the current status is one
// of fromStatuses. Returns false when the row exists in a different status.
func (r *ArticleRepo) UpdateStatusIf(ctx context.Context, articleID string, fromStatuses []int, toStatus int, mtime int64) (bool, error) {
	if len(fromStatuses) == 0 {
		return false, appErr.ErrInvalid
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fromStatuses)), ",")
	query := fmt.Sprintf(`UPDATE articles SET status = ?, mtime = ? WHERE id = ? AND status IN (%s)`, placeholders)
	args := []interface{}{toStatus, mtime, articleID}
	for _, status := range fromStatuses {
		args = append(args, status)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *ArticleRepo) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM articles")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanArticle(rows *sql.Rows) (*model.Article, error) {
	var article model.Article
	var processed int
	if err := rows.Scan(
		&article.ID,
		&article.Title,
		&article.URL,
		&processed,
		&article.OriginID,
		&article.Status,
		&article.Extra,
		&article.Ctime,
		&article.Mtime,
	); err != nil {
		return nil, err
	}
	article.Processed = processed == 1
	return &article, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
