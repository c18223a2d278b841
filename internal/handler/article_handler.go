package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/readlater/internal/model"
	"github.com/xxxsen/readlater/internal/pkg/errcode"
	"github.com/xxxsen/readlater/internal/pkg/response"
	"github.com/xxxsen/readlater/internal/service"
)

type ArticleHandler struct {
	articles *service.ArticleService
}

func NewArticleHandler(articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

type articleRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Archived    bool   `json:"archived"`
	Deleted     bool   `json:"deleted"`
	DateUpdated int64  `json:"date_updated"`
}

type articleView struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Domain      string   `json:"domain"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Processed   bool     `json:"processed"`
	Archived    bool     `json:"archived"`
	Deleted     bool     `json:"deleted"`
	DateAdded   int64    `json:"date_added"`
	DateUpdated int64    `json:"date_updated"`
	Tags        []string `json:"tags,omitempty"`
}

func toArticleView(article *model.Article) articleView {
	view := articleView{
		ID:          article.ID,
		URL:         article.URL,
		Title:       article.EffectiveTitle(),
		Domain:      article.Domain(),
		Processed:   article.Processed,
		Archived:    article.Archived(),
		Deleted:     article.Deleted(),
		DateAdded:   article.Ctime,
		DateUpdated: article.Mtime,
	}
	if social, err := article.Social(); err == nil {
		view.Description = social.Description()
	}
	if info, err := article.Info(); err == nil {
		view.Author = info.Author
	}
	return view
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.URL == "" {
		response.Error(c, errcode.ErrInvalid, "url required")
		return
	}
	article, err := h.articles.CreateFromAPIObject(c.Request.Context(), service.ArticleAPIObject{
		URL:      req.URL,
		Title:    req.Title,
		Archived: req.Archived,
		Deleted:  req.Deleted,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toArticleView(article))
}

func (h *ArticleHandler) List(c *gin.Context) {
	since := queryInt64(c, "since", 0)
	limit := queryUint(c, "limit", 50)
	offset := queryUint(c, "offset", 0)
	articles, err := h.articles.List(c.Request.Context(), since, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]articleView, 0, len(articles))
	for i := range articles {
		views = append(views, toArticleView(&articles[i]))
	}
	response.Success(c, gin.H{"articles": views})
}

func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toArticleView(article))
}

func (h *ArticleHandler) Update(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	article, err := h.articles.UpdateFromAPIObject(c.Request.Context(), c.Param("id"), service.ArticleAPIObject{
		Title:       req.Title,
		Archived:    req.Archived,
		Deleted:     req.Deleted,
		DateUpdated: req.DateUpdated,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toArticleView(article))
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	article, err := h.articles.SoftDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toArticleView(article))
}

func (h *ArticleHandler) Archive(c *gin.Context) {
	article, err := h.articles.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toArticleView(article))
}

func (h *ArticleHandler) Unarchive(c *gin.Context) {
	article, err := h.articles.Unarchive(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toArticleView(article))
}

type tagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *ArticleHandler) UpdateTags(c *gin.Context) {
	var req tagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	tags, err := h.articles.UpdateTags(c.Request.Context(), c.Param("id"), req.Tags)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}

func (h *ArticleHandler) ListTags(c *gin.Context) {
	tags, err := h.articles.ListTags(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"tags": tags})
}
