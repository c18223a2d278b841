package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Articles *ArticleHandler
	Tags     *TagHandler
	Imports  *ImportHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/articles", deps.Articles.Create)
	api.GET("/articles", deps.Articles.List)
	api.GET("/articles/:id", deps.Articles.Get)
	api.POST("/articles/:id", deps.Articles.Update)
	api.DELETE("/articles/:id", deps.Articles.Delete)
	api.POST("/articles/:id/archive", deps.Articles.Archive)
	api.DELETE("/articles/:id/archive", deps.Articles.Unarchive)
	api.PUT("/articles/:id/tags", deps.Articles.UpdateTags)
	api.GET("/articles/:id/tags", deps.Articles.ListTags)

	api.POST("/tags", deps.Tags.Create)
	api.GET("/tags", deps.Tags.List)
	api.DELETE("/tags/:id", deps.Tags.Delete)

	api.POST("/import-jobs", deps.Imports.Create)
	api.GET("/import-jobs", deps.Imports.List)
	api.GET("/import-jobs/:id", deps.Imports.Get)
	api.POST("/import-jobs/:id/close", deps.Imports.Close)
	api.POST("/import-jobs/:id/fail", deps.Imports.Fail)
}
