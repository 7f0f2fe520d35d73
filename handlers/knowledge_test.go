package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"call_quality_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func articleForm(title, content, category, tags string) *strings.Reader {
	f := url.Values{}
	f.Add("title", title)
	f.Add("content", content)
	f.Add("category", category)
	f.Add("tags", tags)
	return strings.NewReader(f.Encode())
}

func TestCreateArticleHandler(t *testing.T) {
	testDB := setupTestDB(t)
	company := createTestCompany(t, testDB, "ООО Ромашка")
	supervisor := createTestUser(t, testDB, "sup@example.com", models.RoleSupervisor, &company.ID)

	t.Run("creates an article with parsed tags", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/knowledge",
			articleForm("Скрипт приветствия", "Здравствуйте, компания Ромашка", "Скрипты", "приветствие, скрипт"))
		c.Request().Header.Set("Content-Type", "application/x-www-form-urlencoded")
		asUser(c, supervisor, company)

		err := CreateArticleHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var article models.KnowledgeArticle
		assert.NoError(t, testDB.Where("company_id = ?", company.ID).First(&article).Error)
		assert.Equal(t, "Скрипты", article.Category)
		assert.Equal(t, []string{"приветствие", "скрипт"}, article.TagList())
		assert.Equal(t, supervisor.ID, *article.AuthorID)
	})

	t.Run("markup is sanitized", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/knowledge",
			articleForm("Опасная статья", `Текст<script>alert(1)</script>`, "FAQ", ""))
		c.Request().Header.Set("Content-Type", "application/x-www-form-urlencoded")
		asUser(c, supervisor, company)

		err := CreateArticleHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var article models.KnowledgeArticle
		assert.NoError(t, testDB.Where("title = ?", "Опасная статья").First(&article).Error)
		assert.NotContains(t, article.Content, "<script>")
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPost, "/api/knowledge",
			articleForm("Статья", "Текст", "Выдумка", ""))
		c.Request().Header.Set("Content-Type", "application/x-www-form-urlencoded")
		asUser(c, supervisor, company)

		err := CreateArticleHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
	})
}

func TestListArticlesHandler(t *testing.T) {
	testDB := setupTestDB(t)
	company := createTestCompany(t, testDB, "ООО Ромашка")
	agent := createTestUser(t, testDB, "agent@example.com", models.RoleAgent, &company.ID)

	seed := func(title, content, category string) {
		article := &models.KnowledgeArticle{
			CompanyID: company.ID,
			Title:     title,
			Content:   content,
			Category:  category,
		}
		assert.NoError(t, article.SetTags(nil))
		assert.NoError(t, testDB.Create(article).Error)
	}
	seed("Скрипт приветствия", "Здравствуйте", "Скрипты")
	seed("Возврат товара", "Порядок возврата", "Процедуры")
	seed("Вопросы о доставке", "Сроки доставки", "FAQ")

	listTitles := func(rec string) []string {
		var payload struct {
			Articles []models.KnowledgeArticle `json:"articles"`
		}
		assert.NoError(t, json.Unmarshal([]byte(rec), &payload))
		titles := make([]string, 0, len(payload.Articles))
		for _, a := range payload.Articles {
			titles = append(titles, a.Title)
		}
		return titles
	}

	t.Run("query matches title and content", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/knowledge?q=возврат", nil)
		asUser(c, agent, company)

		assert.NoError(t, ListArticlesHandler(c))
		titles := listTitles(rec.Body.String())
		assert.Equal(t, []string{"Возврат товара"}, titles)
	})

	t.Run("category filter", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/knowledge?category=FAQ", nil)
		asUser(c, agent, company)

		assert.NoError(t, ListArticlesHandler(c))
		titles := listTitles(rec.Body.String())
		assert.Equal(t, []string{"Вопросы о доставке"}, titles)
	})

	t.Run("no filters returns everything with the category list", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/knowledge", nil)
		asUser(c, agent, company)

		assert.NoError(t, ListArticlesHandler(c))

		var payload struct {
			Articles   []models.KnowledgeArticle `json:"articles"`
			Categories []string                  `json:"categories"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Len(t, payload.Articles, 3)
		assert.Equal(t, models.KnowledgeCategories, payload.Categories)
	})
}

func TestDeleteArticleHandler(t *testing.T) {
	testDB := setupTestDB(t)
	company := createTestCompany(t, testDB, "ООО Ромашка")
	supervisor := createTestUser(t, testDB, "sup2@example.com", models.RoleSupervisor, &company.ID)

	keep := &models.KnowledgeArticle{CompanyID: company.ID, Title: "Оставить", Content: "x", Category: "FAQ"}
	remove := &models.KnowledgeArticle{CompanyID: company.ID, Title: "Удалить", Content: "y", Category: "FAQ"}
	assert.NoError(t, testDB.Create(keep).Error)
	assert.NoError(t, testDB.Create(remove).Error)

	t.Run("removes exactly one article", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/knowledge/"+remove.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(remove.ID)
		asUser(c, supervisor, company)

		err := DeleteArticleHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var articles []models.KnowledgeArticle
		assert.NoError(t, testDB.Where("company_id = ?", company.ID).Find(&articles).Error)
		assert.Len(t, articles, 1)
		assert.Equal(t, keep.ID, articles[0].ID)
	})

	t.Run("another company's article is not found", func(t *testing.T) {
		other := createTestCompany(t, testDB, "Другая компания")
		outsider := createTestUser(t, testDB, "outsider2@example.com", models.RoleSupervisor, &other.ID)

		_, c, _ := setupEcho(http.MethodDelete, "/api/knowledge/"+keep.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(keep.ID)
		asUser(c, outsider, other)

		err := DeleteArticleHandler(c)
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, err.(*echo.HTTPError).Code)
	})
}
