package service

import (
	"context"
	"fmt"
	"net/url"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
	"github.com/xxxsen/readlater/internal/pkg/timeutil"
	"github.com/xxxsen/readlater/internal/pkg/urlutil"
	"github.com/xxxsen/readlater/internal/repo"
)

const defaultOriginCacheSize = 256

// ArticleAPIObject is the external representation the API layer maps
// requests into.
type ArticleAPIObject struct {
	URL         string
	Title       string
	Archived    bool
	Deleted     bool
	DateUpdated int64
}

// FetchedArticle is the async processor's output applied to the catalog.
type FetchedArticle struct {
	URL          string
	Title        string
	Author       string
	OpenGraph    map[string]string
	Twitter      map[string]string
	FullHTML     string
	FullTextHTML string
}

type ArticleService struct {
	articles    *repo.ArticleRepo
	origins     *repo.OriginRepo
	tagged      *repo.TaggedArticleRepo
	tags        *TagService
	originCache *lru.Cache[string, string]
}

func NewArticleService(articles *repo.ArticleRepo, origins *repo.OriginRepo, tagged *repo.TaggedArticleRepo, tags *TagService, originCacheSize int) *ArticleService {
	if originCacheSize <= 0 {
		originCacheSize = defaultOriginCacheSize
	}
	cache, _ := lru.New[string, string](originCacheSize)
	return &ArticleService{
		articles:    articles,
		origins:     origins,
		tagged:      tagged,
		tags:        tags,
		originCache: cache,
	}
}

// ForURL canonicalizes url and looks the article up by the canonical form.
// A missing article is not an error: the canonical URL comes back either way
// so the caller can create the record.
func (s *ArticleService) ForURL(ctx context.Context, rawURL string) (*model.Article, string, error) {
	canonical, err := urlutil.Canonicalize(rawURL)
	if err != nil {
		return nil, "", appErr.ErrInvalid
	}
	article, err := s.articles.GetByURL(ctx, canonical)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, canonical, nil
		}
		return nil, canonical, err
	}
	return article, canonical, nil
}

// CreateFromAPIObject creates an article directly from an already-fetched
// representation. A second create for the same canonical URL is a conflict.
func (s *ArticleService) CreateFromAPIObject(ctx context.Context, obj ArticleAPIObject) (*model.Article, error) {
	existing, canonical, err := s.ForURL(ctx, obj.URL)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, appErr.ErrConflict
	}
	status := model.ArticleStatusUnread
	if obj.Deleted {
		status = model.ArticleStatusDeleted
	} else if obj.Archived {
		status = model.ArticleStatusArchived
	}
	now := timeutil.NowUnix()
	article := &model.Article{
		ID:     newID(),
		Title:  obj.Title,
		URL:    canonical,
		Status: status,
		Ctime:  now,
		Mtime:  now,
	}
	originID, err := s.ensureOrigin(ctx, canonical)
	if err != nil {
		return nil, err
	}
	article.OriginID = originID
	if err := s.articles.Create(ctx, article); err != nil {
		if isUniqueViolation(err) {
			return nil, appErr.ErrConflict
		}
		return nil, err
	}
	return article, nil
}

// UpdateFromAPIObject applies the status merge from an external
// representation under the optimistic-concurrency guard: a stored mtime
// strictly newer than the client's observed date_updated rejects the write.
// The merge is asymmetric on purpose: deleted wins, then archived; there is
// no mark-unread path here.
func (s *ArticleService) UpdateFromAPIObject(ctx context.Context, articleID string, obj ArticleAPIObject) (*model.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Mtime > obj.DateUpdated {
		return nil, appErr.ErrAlreadyUpdated
	}
	status := article.Status
	if obj.Deleted {
		status = model.ArticleStatusDeleted
	} else if obj.Archived {
		status = model.ArticleStatusArchived
	}
	now := timeutil.NowUnix()
	ok, err := s.articles.UpdateStatusGuarded(ctx, articleID, status, now, obj.DateUpdated)
	if err != nil {
		return nil, err
	}
	if !ok {
		// raced with a newer writer between the read and the guarded write
		if _, err := s.articles.GetByID(ctx, articleID); err != nil {
			return nil, err
		}
		return nil, appErr.ErrAlreadyUpdated
	}
	return s.articles.GetByID(ctx, articleID)
}

// Archive moves an article to ARCHIVED. DELETED is terminal; archiving a
// deleted article is invalid.
func (s *ArticleService) Archive(ctx context.Context, articleID string) (*model.Article, error) {
	return s.transition(ctx, articleID,
		[]int{model.ArticleStatusUnread, model.ArticleStatusArchived}, model.ArticleStatusArchived)
}

// Unarchive moves an article back to UNREAD.
func (s *ArticleService) Unarchive(ctx context.Context, articleID string) (*model.Article, error) {
	return s.transition(ctx, articleID,
		[]int{model.ArticleStatusArchived, model.ArticleStatusUnread}, model.ArticleStatusUnread)
}

// SoftDelete marks an article DELETED. Idempotent; the record stays in
// storage.
func (s *ArticleService) SoftDelete(ctx context.Context, articleID string) (*model.Article, error) {
	return s.transition(ctx, articleID,
		[]int{model.ArticleStatusUnread, model.ArticleStatusArchived, model.ArticleStatusDeleted}, model.ArticleStatusDeleted)
}

func (s *ArticleService) transition(ctx context.Context, articleID string, from []int, to int) (*model.Article, error) {
	ok, err := s.articles.UpdateStatusIf(ctx, articleID, from, to, timeutil.NowUnix())
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.articles.GetByID(ctx, articleID); err != nil {
			return nil, err
		}
		// the row exists but sits in a status with no edge to the target
		return nil, appErr.ErrInvalid
	}
	return s.articles.GetByID(ctx, articleID)
}

func (s *ArticleService) Get(ctx context.Context, articleID string) (*model.Article, error) {
	return s.articles.GetByID(ctx, articleID)
}

func (s *ArticleService) List(ctx context.Context, since int64, limit, offset uint) ([]model.Article, error) {
	return s.articles.List(ctx, since, limit, offset)
}

// SaveFetched creates or updates the article for one processed page. Called
// by the import flow once the async task has extracted content; status is
// never touched for an existing article.
func (s *ArticleService) SaveFetched(ctx context.Context, fetched FetchedArticle) (*model.Article, error) {
	article, canonical, err := s.ForURL(ctx, fetched.URL)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	fresh := article == nil
	if fresh {
		originID, err := s.ensureOrigin(ctx, canonical)
		if err != nil {
			return nil, err
		}
		article = &model.Article{
			ID:       newID(),
			URL:      canonical,
			OriginID: originID,
			Status:   model.ArticleStatusUnread,
			Ctime:    now,
		}
	}
	if fetched.Title != "" {
		article.Title = fetched.Title
	}
	article.Processed = true
	article.Mtime = now
	if err := article.SetSocial(model.SocialData{
		OpenGraph: fetched.OpenGraph,
		Twitter:   fetched.Twitter,
	}); err != nil {
		return nil, err
	}
	if err := article.SetInfo(model.ArticleInfo{
		Author:       fetched.Author,
		FullHTML:     fetched.FullHTML,
		FullTextHTML: fetched.FullTextHTML,
	}); err != nil {
		return nil, err
	}
	if fresh {
		if err := s.articles.Create(ctx, article); err != nil {
			if !isUniqueViolation(err) {
				return nil, err
			}
			// concurrent import of the same URL; fold into an update
			existing, getErr := s.articles.GetByURL(ctx, canonical)
			if getErr != nil {
				return nil, getErr
			}
			article.ID = existing.ID
			article.Status = existing.Status
			article.Ctime = existing.Ctime
			if err := s.articles.Update(ctx, article); err != nil {
				return nil, err
			}
		}
		return article, nil
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// UpdateTags replaces the article's tag set with the named tags, creating
// missing tags on the fly.
func (s *ArticleService) UpdateTags(ctx context.Context, articleID string, names []string) ([]model.Tag, error) {
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	tags, err := s.tags.EnsureByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if err := s.tagged.DeleteByArticle(ctx, articleID); err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	for _, tag := range tags {
		link := &model.TaggedArticle{TagID: tag.ID, ArticleID: articleID, Ctime: now}
		if err := s.tagged.Add(ctx, link); err != nil {
			return nil, err
		}
	}
	return tags, nil
}

// ListTags returns the article's tags.
func (s *ArticleService) ListTags(ctx context.Context, articleID string) ([]model.Tag, error) {
	ids, err := s.tagged.ListTagIDsByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return s.tags.ListByIDs(ctx, ids)
}

// ensureOrigin registers the article's source site on first sight. Lookups
// go through a small LRU since origins are immutable once created.
func (s *ArticleService) ensureOrigin(ctx context.Context, canonicalURL string) (string, error) {
	parsed, err := url.Parse(canonicalURL)
	if err != nil || parsed.Host == "" {
		return "", appErr.ErrInvalid
	}
	originURL := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	if id, ok := s.originCache.Get(originURL); ok {
		return id, nil
	}
	origin, err := s.origins.GetByURL(ctx, originURL)
	if err == nil {
		s.originCache.Add(originURL, origin.ID)
		return origin.ID, nil
	}
	if !appErr.IsNotFound(err) {
		return "", err
	}
	now := timeutil.NowUnix()
	origin = &model.Origin{
		ID:    newID(),
		Title: urlutil.Domain(canonicalURL),
		URL:   originURL,
		Ctime: now,
		Mtime: now,
	}
	if err := s.origins.Create(ctx, origin); err != nil {
		if !isUniqueViolation(err) {
			return "", err
		}
		origin, err = s.origins.GetByURL(ctx, originURL)
		if err != nil {
			return "", err
		}
	}
	s.originCache.Add(originURL, origin.ID)
	return origin.ID, nil
}
