package service

import (
	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/db"
)

// GetSettings retrieves the singleton settings row.
func GetSettings(dbConn *gorm.DB) (*db.Settings, error) {
	var settings db.Settings
	err := dbConn.First(&settings, 1).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings overwrites the singleton settings row. Last write wins;
// the row id is pinned to 1 regardless of the payload.
func UpdateSettings(dbConn *gorm.DB, updated *db.Settings) (*db.Settings, error) {
	settings, err := GetSettings(dbConn)
	if err != nil {
		return nil, err
	}

	settings.GeminiAPIKey = updated.GeminiAPIKey
	settings.MaxOutputTokens = updated.MaxOutputTokens
	settings.DefaultUseSecretsScanner = updated.DefaultUseSecretsScanner
	settings.DefaultUseDomainAnalyzer = updated.DefaultUseDomainAnalyzer

	if err := dbConn.Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
