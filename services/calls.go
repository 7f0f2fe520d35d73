package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"sync"

	"call_quality_app_go/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ManualCallInput describes a call entered by hand, without a recording.
type ManualCallInput struct {
	PhoneNumber string
	AgentID     string
	AgentName   string
	Duration    string // Raw form value; invalid values become unknown
	Transcript  string
	Notes       string
}

// URLCallInput describes one recording referenced by URL.
type URLCallInput struct {
	URL         string
	PhoneNumber string
	AgentID     string
	AgentName   string
}

// FileUploadOutcome reports the result of storing one uploaded recording.
type FileUploadOutcome struct {
	Filename string `json:"filename"`
	CallID   string `json:"call_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CreateManualCall records a call without a recording. Manual entries
// skip the processing pipeline and are created already completed.
func CreateManualCall(db *gorm.DB, companyID string, input ManualCallInput) (*models.Call, error) {
	call := &models.Call{
		CompanyID:   companyID,
		PhoneNumber: input.PhoneNumber,
		Status:      models.CallStatusCompleted,
		Transcript:  input.Transcript,
		Metadata: datatypes.JSONMap{
			"upload_method": "manual",
		},
	}

	if input.AgentID != "" {
		call.AgentID = &input.AgentID
	}
	if input.AgentName != "" {
		call.Metadata["agent_name"] = input.AgentName
	}
	if input.Notes != "" {
		call.Metadata["notes"] = input.Notes
	}

	// Unparsable or non-positive durations are stored as unknown
	if seconds, err := strconv.Atoi(input.Duration); err == nil && seconds > 0 {
		call.Duration = &seconds
	}

	if err := db.Create(call).Error; err != nil {
		return nil, fmt.Errorf("failed to create call: %w", err)
	}

	return call, nil
}

// CreateCallsFromURLs registers one pending call per URL. Inserts run
// sequentially and stop at the first failure, returning the calls that
// were created before it.
func CreateCallsFromURLs(db *gorm.DB, companyID string, inputs []URLCallInput) ([]models.Call, error) {
	created := make([]models.Call, 0, len(inputs))

	for _, input := range inputs {
		call := models.Call{
			CompanyID:   companyID,
			PhoneNumber: input.PhoneNumber,
			AudioURL:    input.URL,
			Status:      models.CallStatusPending,
			Metadata: datatypes.JSONMap{
				"upload_method": "url",
			},
		}

		if input.AgentID != "" {
			call.AgentID = &input.AgentID
		}
		if input.AgentName != "" {
			call.Metadata["agent_name"] = input.AgentName
		}

		if err := db.Create(&call).Error; err != nil {
			return created, fmt.Errorf("failed to create call for %s: %w", input.URL, err)
		}
		created = append(created, call)
	}

	return created, nil
}

// UploadCallFiles stores recordings and registers pending calls for
// them. Files upload concurrently; the call rows go in as one batch
// after every upload has finished. The outcome slice preserves the
// input order.
func UploadCallFiles(ctx context.Context, db *gorm.DB, companyID string, files []*multipart.FileHeader, maxSizeMB int64) []FileUploadOutcome {
	outcomes := make([]FileUploadOutcome, len(files))
	uploaded := make([]*StorageResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file *multipart.FileHeader) {
			defer wg.Done()
			outcomes[i] = FileUploadOutcome{Filename: file.Filename}

			if err := ValidateAudioUpload(file, maxSizeMB); err != nil {
				outcomes[i].Error = err.Error()
				return
			}

			key := GenerateCallRecordingKey(file.Filename)
			result, err := Storage.Upload(ctx, file, key)
			if err != nil {
				outcomes[i].Error = fmt.Sprintf("failed to store recording: %v", err)
				return
			}
			uploaded[i] = result
		}(i, file)
	}
	wg.Wait()

	calls := make([]models.Call, 0, len(files))
	indexes := make([]int, 0, len(files))
	for i, result := range uploaded {
		if result == nil {
			continue
		}
		calls = append(calls, models.Call{
			CompanyID:  companyID,
			StorageKey: result.Key,
			AudioURL:   result.URL,
			Status:     models.CallStatusPending,
			Metadata: datatypes.JSONMap{
				"original_filename": files[i].Filename,
				"file_size":         files[i].Size,
				"upload_method":     "file",
			},
		})
		indexes = append(indexes, i)
	}
	if len(calls) == 0 {
		return outcomes
	}

	if err := db.Create(&calls).Error; err != nil {
		// Stored objects without rows are orphans; remove them
		for _, i := range indexes {
			_ = Storage.Delete(ctx, uploaded[i].Key)
			outcomes[i].Error = fmt.Sprintf("failed to create call: %v", err)
		}
		return outcomes
	}

	for n, i := range indexes {
		outcomes[i].CallID = calls[n].ID
	}
	return outcomes
}

// DeleteCall removes a call with its scores, evaluations, and tags.
// A stored recording is deleted from storage as well.
func DeleteCall(ctx context.Context, db *gorm.DB, call *models.Call) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("call_id = ?", call.ID).Delete(&models.CallScore{}).Error; err != nil {
			return err
		}
		if err := tx.Where("call_id = ?", call.ID).Delete(&models.CallEvaluation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("call_id = ?", call.ID).Delete(&models.CallTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(call).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete call: %w", err)
	}

	if call.StorageKey != "" && Storage != nil {
		if err := Storage.Delete(ctx, call.StorageKey); err != nil {
			// Row is gone; log and move on
			LogSecurityEvent("STORAGE_CLEANUP_FAILED", call.CompanyID, fmt.Sprintf("call %s key %s: %v", call.ID, call.StorageKey, err))
		}
	}

	return nil
}
