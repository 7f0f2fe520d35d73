package handlers

import (
	"net/http"
	"strings"

	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

type articleRequest struct {
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Category string `json:"category" form:"category"`
	Tags     string `json:"tags" form:"tags"` // Comma-separated
	IsActive *bool  `json:"is_active" form:"is_active"`
}

func (r *articleRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Content is required")
	}
	if !models.IsValidKnowledgeCategory(r.Category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category")
	}
	return nil
}

// ListArticlesHandler returns the company's knowledge base articles.
// Optional filters: ?q= (title or content substring), ?category=.
func ListArticlesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	articles, err := services.SearchArticles(db.DB, *user.CompanyID, c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load articles")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"articles":   articles,
		"categories": models.KnowledgeCategories,
	})
}

// GetArticleHandler returns one article
func GetArticleHandler(c echo.Context) error {
	id := c.Param("id")

	var article models.KnowledgeArticle
	err := middleware.GetCompanyScopedQuery(c, db.DB).
		Preload("Author").
		First(&article, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}

	return c.JSON(http.StatusOK, article)
}

// CreateArticleHandler adds a knowledge base article
func CreateArticleHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := req.validate(); err != nil {
		return err
	}

	article := models.KnowledgeArticle{
		CompanyID: *user.CompanyID,
		Title:     strings.TrimSpace(req.Title),
		Content:   services.SanitizeArticleContent(req.Content),
		Category:  req.Category,
		IsActive:  true,
		AuthorID:  &user.ID,
	}
	if req.IsActive != nil {
		article.IsActive = *req.IsActive
	}
	if err := article.SetTags(services.ParseArticleTags(req.Tags)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tags")
	}

	if err := db.DB.Create(&article).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create article")
	}

	return c.JSON(http.StatusCreated, article)
}

// UpdateArticleHandler edits an existing article in place
func UpdateArticleHandler(c echo.Context) error {
	id := c.Param("id")

	var article models.KnowledgeArticle
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&article, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}

	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := req.validate(); err != nil {
		return err
	}

	article.Title = strings.TrimSpace(req.Title)
	article.Content = services.SanitizeArticleContent(req.Content)
	article.Category = req.Category
	if req.IsActive != nil {
		article.IsActive = *req.IsActive
	}
	if err := article.SetTags(services.ParseArticleTags(req.Tags)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tags")
	}

	if err := db.DB.Save(&article).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update article")
	}

	return c.JSON(http.StatusOK, article)
}

// DeleteArticleHandler removes an article
func DeleteArticleHandler(c echo.Context) error {
	id := c.Param("id")

	var article models.KnowledgeArticle
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&article, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Article not found")
	}

	if err := db.DB.Delete(&article).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete article")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
