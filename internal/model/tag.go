package model

import "github.com/xxxsen/readlater/internal/pkg/pack"

type Tag struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Extra pack.Bag `json:"-"`
	Ctime int64    `json:"ctime"`
	Mtime int64    `json:"mtime"`
}

// TaggedArticle is the tag/article join row.
type TaggedArticle struct {
	TagID     string   `json:"tag_id"`
	ArticleID string   `json:"article_id"`
	Extra     pack.Bag `json:"-"`
	Ctime     int64    `json:"ctime"`
}
