package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/designfi/studio/internal/articles"
)

// listArticles returns all articles, newest first.
func (r *Router) listArticles(c *gin.Context) {
	list, err := r.articles.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

// getArticle returns one article by ID.
func (r *Router) getArticle(c *gin.Context) {
	article, err := r.articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

type createArticleRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	Image        string `json:"image"`
	Author       string `json:"author"`
	TelegramLink string `json:"telegram_link"`
	TwitterLink  string `json:"twitter_link"`
	WebsiteLink  string `json:"website_link"`
}

// createArticle publishes a new article.
func (r *Router) createArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	article, err := r.articles.Publish(c.Request.Context(), &articles.PublishRequest{
		Title:        req.Title,
		Content:      req.Content,
		Image:        req.Image,
		Author:       req.Author,
		TelegramLink: req.TelegramLink,
		TwitterLink:  req.TwitterLink,
		WebsiteLink:  req.WebsiteLink,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// deleteArticle removes an article by ID.
func (r *Router) deleteArticle(c *gin.Context) {
	if err := r.articles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
