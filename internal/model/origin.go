package model

import "github.com/xxxsen/readlater/internal/pkg/pack"

// Origin is a content source site, registered the first time an article from
// it is saved.
type Origin struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Extra pack.Bag `json:"-"`
	Ctime int64    `json:"ctime"`
	Mtime int64    `json:"mtime"`
}
