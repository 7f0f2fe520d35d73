package services

import (
	"fmt"
	"strings"

	"call_quality_app_go/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var knowledgePolicy = bluemonday.UGCPolicy()

// SanitizeArticleContent strips unsafe markup from user-authored
// article content before it is stored.
func SanitizeArticleContent(content string) string {
	return knowledgePolicy.Sanitize(content)
}

// ParseArticleTags splits a comma-separated tag string, trimming
// whitespace and dropping empty entries.
func ParseArticleTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SearchArticles returns a company's articles filtered by an optional
// search query (matched in title and content) and an optional category.
func SearchArticles(db *gorm.DB, companyID, query, category string) ([]models.KnowledgeArticle, error) {
	q := db.Where("company_id = ?", companyID)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var articles []models.KnowledgeArticle
	if err := q.Order("updated_at DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	return articles, nil
}
