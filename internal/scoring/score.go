// Package scoring turns finding lists into deterministic, auditable risk
// scores. The model's self-reported score and tier are always discarded in
// favor of these functions: a fixed point table is reproducible and
// testable, model self-assessment is neither.
package scoring

import (
	"fmt"

	"github.com/scamscan/scamscan/internal/db"
)

// severityPoints is the authoritative per-severity point table. Unknown
// severities contribute nothing.
var severityPoints = map[db.RiskLevel]int{
	db.RiskLow:      3,
	db.RiskMedium:   11,
	db.RiskHigh:     19,
	db.RiskVeryHigh: 29,
}

// auditPenalties is the per-severity deduction for code-audit grading.
var auditPenalties = map[string]int{
	"Low":    2,
	"Medium": 5,
	"High":   10,
}

// Score sums the point value of every finding, caps the total at 100 and
// maps it to a tier. Boundaries are strictly greater-than: exactly 90 is
// High, exactly 55 is Medium, exactly 20 is Low.
func Score(findings []db.Finding) (int, db.RiskLevel) {
	total := 0
	for _, f := range findings {
		total += severityPoints[f.Severity]
	}
	if total > 100 {
		total = 100
	}

	switch {
	case total > 90:
		return total, db.RiskVeryHigh
	case total > 55:
		return total, db.RiskHigh
	case total > 20:
		return total, db.RiskMedium
	default:
		return total, db.RiskLow
	}
}

// MergeFindings concatenates secrets-scan findings onto general-scan
// findings (appended as-is, not deduplicated) and, when domain info with a
// known age is present, prepends one synthetic Domain Intelligence
// finding.
func MergeFindings(general, secrets []db.Finding, info *db.DomainInfo) []db.Finding {
	merged := make([]db.Finding, 0, len(general)+len(secrets)+1)

	if domainFinding, ok := DomainFinding(info); ok {
		merged = append(merged, domainFinding)
	}
	merged = append(merged, general...)
	merged = append(merged, secrets...)
	return merged
}

// DomainFinding synthesizes a finding from registration metadata: High
// severity under 30 days of age, Medium under 180, Low otherwise. Absent
// info or an unknown age produces no finding.
func DomainFinding(info *db.DomainInfo) (db.Finding, bool) {
	if info == nil || info.DomainAgeDays == nil {
		return db.Finding{}, false
	}

	age := *info.DomainAgeDays
	severity := db.RiskLow
	if age < 30 {
		severity = db.RiskHigh
	} else if age < 180 {
		severity = db.RiskMedium
	}

	registrar := info.Registrar
	if registrar == "" {
		registrar = "N/A"
	}

	return db.Finding{
		Category: "Domain Intelligence",
		Severity: severity,
		Description: fmt.Sprintf("Domain registered on %s. Age: %d days. Registrar: %s.",
			info.CreationDate, age, registrar),
	}, true
}

// GradeAudit starts at 100, subtracts a fixed penalty per finding, clamps
// at 0 and maps the result to a letter grade.
func GradeAudit(findings []db.AuditFinding) (int, string) {
	score := 100
	for _, f := range findings {
		score -= auditPenalties[f.Severity]
	}
	if score < 0 {
		score = 0
	}

	switch {
	case score >= 90:
		return score, "A"
	case score >= 80:
		return score, "B"
	case score >= 70:
		return score, "C"
	case score >= 60:
		return score, "D"
	default:
		return score, "F"
	}
}
