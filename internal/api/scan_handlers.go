package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scamscan/scamscan/internal/scanner"
)

// AnalyzeURLRequest represents a scam-scan request for a URL
type AnalyzeURLRequest struct {
	URL               string `json:"url" binding:"required,url"`
	ScanDepth         string `json:"scan_depth" binding:"omitempty,oneof=shallow deep"`
	UseDomainAnalyzer *bool  `json:"use_domain_analyzer"`
	UseSecretsScanner *bool  `json:"use_secrets_scanner"`
}

// AnalyzeHTMLRequest represents a scam-scan request for raw content
type AnalyzeHTMLRequest struct {
	HTML string `json:"html" binding:"required"`
}

// SecretsScanRequest represents a secrets-only scan request
type SecretsScanRequest struct {
	URL     string `json:"url" binding:"omitempty,url"`
	Content string `json:"content"`
}

// CodeAuditRequest represents a code-audit request
type CodeAuditRequest struct {
	URL  string `json:"url" binding:"omitempty,url"`
	Code string `json:"code"`
}

// JobResponse carries the identifier a caller uses to subscribe to
// progress for a scheduled scan.
type JobResponse struct {
	JobID string `json:"job_id"`
}

// AnalyzeURLHandler starts a scam scan for a URL
func AnalyzeURLHandler(runner *scanner.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Analyze request validation error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request format",
				"details": err.Error(),
			})
			return
		}

		depth := req.ScanDepth
		if depth == "" {
			depth = "deep"
		}

		jobID := runner.StartScamScan(scanner.ScamScanRequest{
			URL:               strings.TrimSpace(req.URL),
			ScanDepth:         depth,
			UseDomainAnalyzer: req.UseDomainAnalyzer,
			UseSecretsScanner: req.UseSecretsScanner,
		})

		log.Printf("Scheduled scam scan %s for %s (depth: %s)", jobID, req.URL, depth)
		c.JSON(http.StatusOK, JobResponse{JobID: jobID})
	}
}

// AnalyzeHTMLHandler starts a scam scan for caller-supplied raw content
func AnalyzeHTMLHandler(runner *scanner.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzeHTMLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Analyze-html request validation error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request format",
				"details": err.Error(),
			})
			return
		}

		jobID := runner.StartScamScan(scanner.ScamScanRequest{HTML: req.HTML})

		log.Printf("Scheduled scam scan %s for raw content", jobID)
		c.JSON(http.StatusOK, JobResponse{JobID: jobID})
	}
}

// SecretsScanHandler starts a secrets-only scan
func SecretsScanHandler(runner *scanner.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SecretsScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Secrets-scan request validation error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request format",
				"details": err.Error(),
			})
			return
		}

		if req.URL == "" && req.Content == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Either url or content must be provided"})
			return
		}

		jobID := runner.StartSecretsScan(scanner.SecretsScanRequest{
			URL:     strings.TrimSpace(req.URL),
			Content: req.Content,
		})

		log.Printf("Scheduled secrets scan %s", jobID)
		c.JSON(http.StatusOK, JobResponse{JobID: jobID})
	}
}

// CodeAuditHandler starts a code audit
func CodeAuditHandler(runner *scanner.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CodeAuditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Code-audit request validation error: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request format",
				"details": err.Error(),
			})
			return
		}

		if req.URL == "" && req.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Either url or code must be provided"})
			return
		}

		jobID := runner.StartCodeAudit(scanner.CodeAuditRequest{
			URL:  strings.TrimSpace(req.URL),
			Code: req.Code,
		})

		log.Printf("Scheduled code audit %s", jobID)
		c.JSON(http.StatusOK, JobResponse{JobID: jobID})
	}
}
