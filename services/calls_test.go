package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"call_quality_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func createCallTestCompany(t *testing.T, testDB *gorm.DB) *models.Company {
	company := &models.Company{Name: "ООО Ромашка", Settings: datatypes.JSONMap{}}
	assert.NoError(t, testDB.Create(company).Error)
	return company
}

func TestCreateManualCall(t *testing.T) {
	testDB := setupServiceDB(t)
	company := createCallTestCompany(t, testDB)

	t.Run("creates a single completed call", func(t *testing.T) {
		call, err := CreateManualCall(testDB, company.ID, ManualCallInput{
			PhoneNumber: "+79001234567",
			Transcript:  "Здравствуйте, чем могу помочь?",
			Duration:    "125",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.CallStatusCompleted, call.Status)
		assert.Equal(t, "Здравствуйте, чем могу помочь?", call.Transcript)
		assert.NotNil(t, call.Duration)
		assert.Equal(t, 125, *call.Duration)

		var count int64
		testDB.Model(&models.Call{}).Where("company_id = ?", company.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("invalid duration is stored as unknown", func(t *testing.T) {
		call, err := CreateManualCall(testDB, company.ID, ManualCallInput{
			PhoneNumber: "+79001234568",
			Duration:    "abc",
		})
		assert.NoError(t, err)
		assert.Nil(t, call.Duration)
		assert.Equal(t, models.CallStatusCompleted, call.Status)
	})

	t.Run("agent name lands in metadata", func(t *testing.T) {
		call, err := CreateManualCall(testDB, company.ID, ManualCallInput{
			PhoneNumber: "+79001234569",
			AgentName:   "Анна Петрова",
		})
		assert.NoError(t, err)
		assert.Equal(t, "Анна Петрова", call.Metadata["agent_name"])
		assert.Equal(t, "manual", call.Metadata["upload_method"])
	})
}

func TestCreateCallsFromURLs(t *testing.T) {
	testDB := setupServiceDB(t)
	company := createCallTestCompany(t, testDB)

	t.Run("one pending call per URL", func(t *testing.T) {
		urls := SplitAudioURLs("https://cdn.example.com/a.mp3\n\nhttps://cdn.example.com/b.wav\n")
		inputs := make([]URLCallInput, 0, len(urls))
		for _, u := range urls {
			inputs = append(inputs, URLCallInput{URL: u})
		}

		created, err := CreateCallsFromURLs(testDB, company.ID, inputs)
		assert.NoError(t, err)
		assert.Len(t, created, 2)

		var count int64
		testDB.Model(&models.Call{}).
			Where("company_id = ? AND status = ?", company.ID, models.CallStatusPending).
			Count(&count)
		assert.Equal(t, int64(2), count)

		for _, call := range created {
			assert.Equal(t, "url", call.Metadata["upload_method"])
		}
	})

	t.Run("per-URL annotations are preserved", func(t *testing.T) {
		agent := &models.Profile{
			FirstName: "Борис",
			Email:     "boris@example.com",
			Password:  "hash",
			Role:      models.RoleAgent,
			CompanyID: &company.ID,
			IsActive:  true,
		}
		assert.NoError(t, testDB.Create(agent).Error)

		created, err := CreateCallsFromURLs(testDB, company.ID, []URLCallInput{
			{URL: "https://cdn.example.com/c.mp3", PhoneNumber: "+79005556677", AgentID: agent.ID},
		})
		assert.NoError(t, err)
		assert.Len(t, created, 1)
		assert.Equal(t, "+79005556677", created[0].PhoneNumber)
		assert.NotNil(t, created[0].AgentID)
		assert.Equal(t, agent.ID, *created[0].AgentID)
	})
}

type uploadFixture struct {
	name        string
	contentType string
	data        string
}

// buildUploadHeaders turns fixtures into the *multipart.FileHeader
// slice a real request would carry.
func buildUploadHeaders(t *testing.T, fixtures []uploadFixture) []*multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range fixtures {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		assert.NoError(t, err)
		_, err = part.Write([]byte(f.data))
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/calls/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["files"]
}

func TestUploadCallFiles(t *testing.T) {
	testDB := setupServiceDB(t)
	company := createCallTestCompany(t, testDB)

	baseDir := t.TempDir()
	previous := Storage
	Storage = NewLocalStorage(baseDir)
	defer func() { Storage = previous }()

	t.Run("stores recordings and rejects non-audio files", func(t *testing.T) {
		files := buildUploadHeaders(t, []uploadFixture{
			{name: "звонок утро.mp3", contentType: "audio/mpeg", data: "fake mp3 bytes"},
			{name: "notes.txt", contentType: "text/plain", data: "not a recording"},
		})

		outcomes := UploadCallFiles(context.Background(), testDB, company.ID, files, 25)
		assert.Len(t, outcomes, 2)

		assert.Empty(t, outcomes[0].Error)
		assert.NotEmpty(t, outcomes[0].CallID)
		assert.Equal(t, "звонок утро.mp3", outcomes[0].Filename)

		assert.Empty(t, outcomes[1].CallID)
		assert.Contains(t, outcomes[1].Error, "file type not allowed")

		var call models.Call
		assert.NoError(t, testDB.First(&call, "id = ?", outcomes[0].CallID).Error)
		assert.Equal(t, models.CallStatusPending, call.Status)
		assert.True(t, strings.HasPrefix(call.StorageKey, "calls/"), call.StorageKey)
		assert.NotContains(t, call.StorageKey, " ")
		assert.Equal(t, "звонок утро.mp3", call.Metadata["original_filename"])
		assert.Equal(t, "file", call.Metadata["upload_method"])

		stored, err := os.ReadFile(filepath.Join(baseDir, call.StorageKey))
		assert.NoError(t, err)
		assert.Equal(t, "fake mp3 bytes", string(stored))

		var count int64
		testDB.Model(&models.Call{}).Where("company_id = ?", company.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("oversized file is rejected before upload", func(t *testing.T) {
		files := buildUploadHeaders(t, []uploadFixture{
			{name: "huge.wav", contentType: "audio/wav", data: strings.Repeat("x", 2048)},
		})

		outcomes := UploadCallFiles(context.Background(), testDB, company.ID, files, 0)
		assert.Len(t, outcomes, 1)
		assert.Contains(t, outcomes[0].Error, "file size exceeds")

		matches, err := filepath.Glob(filepath.Join(baseDir, "calls", "*huge.wav"))
		assert.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("insert failure removes the stored objects", func(t *testing.T) {
		rollbackDB := setupServiceDB(t)
		rollbackCompany := createCallTestCompany(t, rollbackDB)
		assert.NoError(t, rollbackDB.Migrator().DropTable(&models.Call{}))

		files := buildUploadHeaders(t, []uploadFixture{
			{name: "rollback.mp3", contentType: "audio/mpeg", data: "fake mp3 bytes"},
		})

		outcomes := UploadCallFiles(context.Background(), rollbackDB, rollbackCompany.ID, files, 25)
		assert.Len(t, outcomes, 1)
		assert.Empty(t, outcomes[0].CallID)
		assert.Contains(t, outcomes[0].Error, "failed to create call")

		matches, err := filepath.Glob(filepath.Join(baseDir, "calls", "*rollback.mp3"))
		assert.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestDeleteCall(t *testing.T) {
	testDB := setupServiceDB(t)
	company := createCallTestCompany(t, testDB)

	call, err := CreateManualCall(testDB, company.ID, ManualCallInput{PhoneNumber: "+79000000000"})
	assert.NoError(t, err)

	score := &models.CallScore{CallID: call.ID, TotalScore: 85}
	assert.NoError(t, testDB.Create(score).Error)
	tag := &models.CallTag{CallID: call.ID, Tag: "жалоба"}
	assert.NoError(t, testDB.Create(tag).Error)

	assert.NoError(t, DeleteCall(context.Background(), testDB, call))

	var calls, scores, tags int64
	testDB.Model(&models.Call{}).Where("id = ?", call.ID).Count(&calls)
	testDB.Model(&models.CallScore{}).Where("call_id = ?", call.ID).Count(&scores)
	testDB.Model(&models.CallTag{}).Where("call_id = ?", call.ID).Count(&tags)
	assert.Equal(t, int64(0), calls)
	assert.Equal(t, int64(0), scores)
	assert.Equal(t, int64(0), tags)
}
