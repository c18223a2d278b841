package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

type OriginRepo struct {
	db *sql.DB
}

func NewOriginRepo(db *sql.DB) *OriginRepo {
	return &OriginRepo{db: db}
}

func (r *OriginRepo) Create(ctx context.Context, origin *model.Origin) error {
	data := map[string]interface{}{
		"id":    origin.ID,
		"title": origin.Title,
		"url":   origin.URL,
		"extra": origin.Extra,
		"ctime": origin.Ctime,
		"mtime": origin.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("origins", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *OriginRepo) GetByURL(ctx context.Context, url string) (*model.Origin, error) {
	where := map[string]interface{}{"url": url}
	sqlStr, args, err := builder.BuildSelect("origins", where, []string{"id", "title", "url", "extra", "ctime", "mtime"})
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
	var origin model.Origin
	if err := rows.Scan(&origin.ID, &origin.Title, &origin.URL, &origin.Extra, &origin.Ctime, &origin.Mtime); err != nil {
		return nil, err
	}
	return &origin, nil
}
