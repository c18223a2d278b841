package model

import (
	"github.com/xxxsen/readlater/internal/pkg/pack"
	"github.com/xxxsen/readlater/internal/pkg/urlutil"
)

// Article status values are persisted and part of the wire format; never
// renumber them.
const (
	ArticleStatusUnread   = 1
	ArticleStatusArchived = 2
	ArticleStatusDeleted  = 10
)

var (
	socialDataContainer  = pack.NewContainer[SocialData]()
	articleInfoContainer = pack.NewContainer[ArticleInfo]()
)

func init() {
	pack.EnsureUniqueKeys(SocialData{}, ArticleInfo{})
}

// Article is the canonical saved-article record. The canonical URL is the
// natural key; rows are soft-deleted via status, never removed.
type Article struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Processed bool     `json:"processed"`
	OriginID  string   `json:"origin_id,omitempty"`
	Status    int      `json:"status"`
	Extra     pack.Bag `json:"-"`
	Ctime     int64    `json:"ctime"`
	Mtime     int64    `json:"mtime"`
}

// Domain returns the URL host with a leading "www." label stripped.
func (a *Article) Domain() string {
	return urlutil.Domain(a.URL)
}

// EffectiveTitle prefers the social-derived title over the raw one.
func (a *Article) EffectiveTitle() string {
	social, err := a.Social()
	if err == nil && social.Title() != "" {
		return social.Title()
	}
	return a.Title
}

func (a *Article) Deleted() bool {
	return a.Status == ArticleStatusDeleted
}

func (a *Article) Archived() bool {
	return a.Status == ArticleStatusArchived
}

func (a *Article) Social() (SocialData, error) {
	return socialDataContainer.Load(a.Extra)
}

func (a *Article) SetSocial(data SocialData) error {
	if a.Extra == nil {
		a.Extra = pack.NewBag()
	}
	return socialDataContainer.Store(a.Extra, data)
}

func (a *Article) Info() (ArticleInfo, error) {
	return articleInfoContainer.Load(a.Extra)
}

func (a *Article) SetInfo(info ArticleInfo) error {
	if a.Extra == nil {
		a.Extra = pack.NewBag()
	}
	return articleInfoContainer.Store(a.Extra, info)
}
