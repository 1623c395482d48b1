package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/service"
)

// HistoryHandler returns all analysis results, newest first
func HistoryHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := service.ListAnalysisHistory(dbConn)
		if err != nil {
			log.Printf("Failed to fetch analysis history: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analysis history"})
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

// ClearHistoryHandler deletes all analysis results
func ClearHistoryHandler(dbConn *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		affected, err := service.ClearAnalysisHistory(dbConn)
		if err != nil {
			log.Printf("Failed to clear analysis history: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear analysis history"})
			return
		}

		log.Printf("Cleared analysis history: %d rows removed", affected)
		c.JSON(http.StatusOK, gin.H{
			"message":  "Analysis history successfully cleared",
			"affected": affected,
		})
	}
}
