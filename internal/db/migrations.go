package db

import (
	"errors"
	"log"

	"gorm.io/gorm"
)

// settingsRowID is the fixed primary key of the singleton Settings row.
const settingsRowID = 1

// Migrate performs database migrations and seeds the singleton settings
// row. Exported so tests can migrate throwaway databases.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Site{}, &SubPage{}, &AnalysisResult{}, &AuditResult{}, &Settings{}); err != nil {
		return err
	}
	return seedSettings(db)
}

// seedSettings ensures the Settings table contains exactly one row after
// initialization.
func seedSettings(db *gorm.DB) error {
	var settings Settings
	err := db.First(&settings, settingsRowID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	settings = Settings{
		ID:                       settingsRowID,
		MaxOutputTokens:          8192,
		DefaultUseSecretsScanner: true,
		DefaultUseDomainAnalyzer: true,
	}
	if err := db.Create(&settings).Error; err != nil {
		return err
	}

	log.Println("Seeded default settings row")
	return nil
}
