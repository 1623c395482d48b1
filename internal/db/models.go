package db

import (
	"time"

	"gorm.io/datatypes"
)

// RiskLevel is the closed set of risk tiers used for both overall
// assessments and per-finding severities.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
	RiskUnknown  RiskLevel = "Unknown"
)

// ParseRiskLevel maps a model-supplied string to a RiskLevel. Anything
// outside the known set becomes RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskVeryHigh, RiskUnknown:
		return RiskLevel(s)
	}
	return RiskUnknown
}

// Finding is one discrete issue identified during a scam or secrets scan.
type Finding struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Severity    RiskLevel `json:"severity"`
	CodeSnippet string    `json:"codeSnippet,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	LineNumber  int       `json:"lineNumber,omitempty"`
}

// AuditFinding is one discrete issue identified during a code audit.
type AuditFinding struct {
	Category       string `json:"category"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Severity       string `json:"severity"`
	CodeSnippet    string `json:"codeSnippet,omitempty"`
	FileName       string `json:"fileName,omitempty"`
	LineNumber     int    `json:"lineNumber,omitempty"`
}

// DomainInfo is a snapshot of registration metadata for a scanned host.
// DomainAgeDays is nil when the registry returned no creation date.
type DomainInfo struct {
	Registrar      string `json:"registrar"`
	CreationDate   string `json:"creation_date"`
	ExpirationDate string `json:"expiration_date"`
	DomainAgeDays  *int   `json:"domain_age_days"`
}

// Site represents a website or code source that has been scanned. Its URL
// is normalized (query and fragment stripped) before storage.
type Site struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"uniqueIndex;not null;size:768" json:"url"`
	SubPages  []SubPage `gorm:"foreignKey:SiteID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubPage is one page discovered during a deep crawl. Rows are immutable:
// a second encounter of the same URL is a no-op, not an overwrite.
type SubPage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"uniqueIndex;not null;size:768" json:"url"`
	Content   string    `gorm:"type:text" json:"content"`
	SiteID    uint      `gorm:"index;not null" json:"site_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisResult is one completed scam/secrets scan. History accumulates;
// rows are never updated in place.
type AnalysisResult struct {
	ID               uint                            `gorm:"primaryKey" json:"id"`
	SiteID           uint                            `gorm:"index;not null" json:"-"`
	SiteURL          string                          `gorm:"index;size:768" json:"site_url"`
	OverallRisk      RiskLevel                       `gorm:"size:16" json:"overallRisk"`
	RiskScore        int                             `json:"riskScore"`
	Summary          string                          `gorm:"type:text" json:"summary"`
	DetailedAnalysis datatypes.JSONSlice[Finding]    `json:"detailedAnalysis"`
	DomainInfo       datatypes.JSONType[*DomainInfo] `json:"domainInfo"`
	LastAnalyzedAt   time.Time                       `gorm:"index;autoCreateTime" json:"last_analyzed_at"`
}

// AuditResult is one completed code audit.
type AuditResult struct {
	ID               uint                              `gorm:"primaryKey" json:"id"`
	SiteID           uint                              `gorm:"index;not null" json:"-"`
	SourceIdentifier string                            `gorm:"index;size:768" json:"source_identifier"`
	OverallGrade     string                            `gorm:"size:2" json:"overallGrade"`
	QualityScore     int                               `json:"qualityScore"`
	Summary          string                            `gorm:"type:text" json:"summary"`
	DetailedAnalysis datatypes.JSONSlice[AuditFinding] `json:"detailedAnalysis"`
	LastAnalyzedAt   time.Time                         `gorm:"index;autoCreateTime" json:"last_analyzed_at"`
}

// Settings is the singleton configuration row (fixed id = 1). An empty
// GeminiAPIKey means "fall back to the process-level key".
type Settings struct {
	ID                       uint   `gorm:"primaryKey" json:"id"`
	GeminiAPIKey             string `gorm:"size:255" json:"gemini_api_key"`
	MaxOutputTokens          int    `gorm:"default:8192" json:"max_output_tokens"`
	DefaultUseSecretsScanner bool   `gorm:"default:true" json:"default_use_secrets_scanner"`
	DefaultUseDomainAnalyzer bool   `gorm:"default:true" json:"default_use_domain_analyzer"`
}

// User represents an authenticated admin user.
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;size:100" json:"username"`
	Password  string    `gorm:"not null;size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
