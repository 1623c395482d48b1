package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/db"
)

// ErrSiteNotPersisted indicates an attempt to save a result for a site
// that has no database id yet. This is a programming-contract violation
// in the orchestration, not a user error.
var ErrSiteNotPersisted = errors.New("site must be persisted before a result can be saved")

// GetOrCreateSite returns the Site for a normalized URL, creating it on
// first encounter.
func GetOrCreateSite(dbConn *gorm.DB, url string) (*db.Site, error) {
	if url == "" {
		return nil, fmt.Errorf("site URL cannot be empty")
	}

	var site db.Site
	err := dbConn.Where("url = ?", url).First(&site).Error
	if err == nil {
		return &site, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	site = db.Site{URL: url}
	if err := dbConn.Create(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// GetSiteWithSubPages loads a site and its crawled sub-pages.
func GetSiteWithSubPages(dbConn *gorm.DB, url string) (*db.Site, error) {
	var site db.Site
	err := dbConn.Preload("SubPages").Where("url = ?", url).First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// SaveSubPage stores one crawled page under a site. A sub-page with the
// same URL already on record makes this a no-op.
func SaveSubPage(dbConn *gorm.DB, siteID uint, url, content string) error {
	if siteID == 0 {
		return ErrSiteNotPersisted
	}

	var existing db.SubPage
	err := dbConn.Where("url = ?", url).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	page := db.SubPage{
		URL:     url,
		Content: content,
		SiteID:  siteID,
	}
	return dbConn.Create(&page).Error
}

// SaveAnalysis appends a new analysis result for a site.
func SaveAnalysis(dbConn *gorm.DB, result *db.AnalysisResult) error {
	if result.SiteID == 0 {
		return ErrSiteNotPersisted
	}
	return dbConn.Create(result).Error
}

// SaveAudit appends a new code-audit result for a site.
func SaveAudit(dbConn *gorm.DB, result *db.AuditResult) error {
	if result.SiteID == 0 {
		return ErrSiteNotPersisted
	}
	return dbConn.Create(result).Error
}

// ListAnalysisHistory returns all analysis results, newest first.
func ListAnalysisHistory(dbConn *gorm.DB) ([]db.AnalysisResult, error) {
	var results []db.AnalysisResult
	err := dbConn.Order("last_analyzed_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ClearAnalysisHistory deletes all analysis results and returns the number
// of rows removed. Sites and sub-pages are left in place.
func ClearAnalysisHistory(dbConn *gorm.DB) (int64, error) {
	result := dbConn.Where("1 = 1").Delete(&db.AnalysisResult{})
	return result.RowsAffected, result.Error
}
