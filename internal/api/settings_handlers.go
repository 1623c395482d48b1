package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/service"
)

// UpdateSettingsRequest represents a settings update payload
type UpdateSettingsRequest struct {
	GeminiAPIKey             string `json:"gemini_api_key"`
	MaxOutputTokens          int    `json:"max_output_tokens" binding:"required,min=1"`
	DefaultUseSecretsScanner bool   `json:"default_use_secrets_scanner"`
	DefaultUseDomainAnalyzer bool   `json:"default_use_domain_analyzer"`
}

// GetSettingsHandler returns the singleton settings row
func GetSettingsHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := service.GetSettings(dbConn)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
				return
			}
			log.Printf("Failed to fetch settings: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

// UpdateSettingsHandler overwrites the singleton settings row
func UpdateSettingsHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Settings update validation error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request format",
				"details": err.Error(),
			})
			return
		}

		settings, err := service.UpdateSettings(dbConn, &db.Settings{
			GeminiAPIKey:             req.GeminiAPIKey,
			MaxOutputTokens:          req.MaxOutputTokens,
			DefaultUseSecretsScanner: req.DefaultUseSecretsScanner,
			DefaultUseDomainAnalyzer: req.DefaultUseDomainAnalyzer,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
				return
			}
			log.Printf("Failed to update settings: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}
