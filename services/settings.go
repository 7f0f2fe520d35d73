package services

import (
	"call_quality_app_go/models"

	"gorm.io/datatypes"
)

// CompanySettingsWithDefaults merges stored company settings over the
// default AI and general sections, so partially configured companies
// still see every setting.
func CompanySettingsWithDefaults(stored datatypes.JSONMap) map[string]interface{} {
	merged := map[string]interface{}{
		"ai":      models.DefaultAISettings(),
		"general": models.DefaultGeneralSettings(),
	}

	for key, value := range stored {
		section, isSection := value.(map[string]interface{})
		base, hasDefaults := merged[key].(map[string]interface{})
		if isSection && hasDefaults {
			for k, v := range section {
				base[k] = v
			}
			continue
		}
		merged[key] = value
	}

	return merged
}

// ApplySettingsUpdate folds an update into a company's stored settings.
// Sections merge key by key; scalar values replace.
func ApplySettingsUpdate(stored datatypes.JSONMap, updates map[string]interface{}) datatypes.JSONMap {
	if stored == nil {
		stored = datatypes.JSONMap{}
	}

	for key, value := range updates {
		section, isSection := value.(map[string]interface{})
		existing, hasExisting := stored[key].(map[string]interface{})
		if isSection && hasExisting {
			for k, v := range section {
				existing[k] = v
			}
			stored[key] = existing
			continue
		}
		stored[key] = value
	}

	return stored
}
