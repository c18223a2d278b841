package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

var tagFields = []string{"id", "name", "extra", "ctime", "mtime"}

type TagRepo struct {
	db *sql.DB
}

func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

func (r *TagRepo) Create(ctx context.Context, tag *model.Tag) error {
	data := map[string]interface{}{
		"id":    tag.ID,
		"name":  tag.Name,
		"extra": tag.Extra,
		"ctime": tag.Ctime,
		"mtime": tag.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("tags", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *TagRepo) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	where := map[string]interface{}{"name": name}
	sqlStr, args, err := builder.BuildSelect("tags", where, tagFields)
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
	return scanTag(rows)
}

func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	where := map[string]interface{}{"_orderby": "name asc"}
	return r.list(ctx, where)
}

func (r *TagRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	where := map[string]interface{}{"id in": ids, "_orderby": "name asc"}
	return r.list(ctx, where)
}

func (r *TagRepo) list(ctx context.Context, where map[string]interface{}) ([]model.Tag, error) {
	sqlStr, args, err := builder.BuildSelect("tags", where, tagFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make([]model.Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}

func (r *TagRepo) Delete(ctx context.Context, tagID string) error {
	where := map[string]interface{}{"id": tagID}
	sqlStr, args, err := builder.BuildDelete("tags", where)
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

func scanTag(rows *sql.Rows) (*model.Tag, error) {
	var tag model.Tag
	if err := rows.Scan(&tag.ID, &tag.Name, &tag.Extra, &tag.Ctime, &tag.Mtime); err != nil {
		return nil, err
	}
	return &tag, nil
}
