package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scamscan/scamscan/internal/db"
)

func findingsOf(severities ...db.RiskLevel) []db.Finding {
	findings := make([]db.Finding, 0, len(severities))
	for _, s := range severities {
		findings = append(findings, db.Finding{
			Category:    "Test",
			Description: "test finding",
			Severity:    s,
		})
	}
	return findings
}

func TestScoreEmptyFindings(t *testing.T) {
	score, tier := Score(nil)
	require.Equal(t, 0, score)
	require.Equal(t, db.RiskLow, tier)
}

func TestScorePointTable(t *testing.T) {
	score, _ := Score(findingsOf(db.RiskLow))
	require.Equal(t, 3, score)

	score, _ = Score(findingsOf(db.RiskMedium))
	require.Equal(t, 11, score)

	score, _ = Score(findingsOf(db.RiskHigh))
	require.Equal(t, 19, score)

	score, _ = Score(findingsOf(db.RiskVeryHigh))
	require.Equal(t, 29, score)
}

func TestScoreUnknownSeverityContributesNothing(t *testing.T) {
	score, tier := Score(findingsOf(db.RiskUnknown, db.RiskUnknown))
	require.Equal(t, 0, score)
	require.Equal(t, db.RiskLow, tier)
}

func TestScoreIsDeterministic(t *testing.T) {
	findings := findingsOf(db.RiskHigh, db.RiskMedium, db.RiskLow)
	score1, tier1 := Score(findings)
	score2, tier2 := Score(findings)
	require.Equal(t, score1, score2)
	require.Equal(t, tier1, tier2)
}

func TestScoreCapsAtHundred(t *testing.T) {
	score, tier := Score(findingsOf(db.RiskVeryHigh, db.RiskVeryHigh, db.RiskVeryHigh, db.RiskVeryHigh))
	require.Equal(t, 100, score)
	require.Equal(t, db.RiskVeryHigh, tier)
}

func TestScoreTierBoundariesAreStrict(t *testing.T) {
	// 2 Very High + 3 Medium = 91
	score, tier := Score(findingsOf(db.RiskVeryHigh, db.RiskVeryHigh, db.RiskMedium, db.RiskMedium, db.RiskMedium))
	require.Equal(t, 91, score)
	require.Equal(t, db.RiskVeryHigh, tier)

	// 3 Very High + 1 Low = 90, not strictly above the Very High boundary
	score, tier = Score(findingsOf(db.RiskVeryHigh, db.RiskVeryHigh, db.RiskVeryHigh, db.RiskLow))
	require.Equal(t, 90, score)
	require.Equal(t, db.RiskHigh, tier)

	// 4 Medium + 4 Low = 56
	score, tier = Score(findingsOf(db.RiskMedium, db.RiskMedium, db.RiskMedium, db.RiskMedium,
		db.RiskLow, db.RiskLow, db.RiskLow, db.RiskLow))
	require.Equal(t, 56, score)
	require.Equal(t, db.RiskHigh, tier)

	// 5 Medium = 55, not strictly above the High boundary
	score, tier = Score(findingsOf(db.RiskMedium, db.RiskMedium, db.RiskMedium, db.RiskMedium, db.RiskMedium))
	require.Equal(t, 55, score)
	require.Equal(t, db.RiskMedium, tier)

	// 7 Low = 21
	score, tier = Score(findingsOf(db.RiskLow, db.RiskLow, db.RiskLow, db.RiskLow, db.RiskLow, db.RiskLow, db.RiskLow))
	require.Equal(t, 21, score)
	require.Equal(t, db.RiskMedium, tier)

	// 1 Medium + 3 Low = 20, not strictly above the Medium boundary
	score, tier = Score(findingsOf(db.RiskMedium, db.RiskLow, db.RiskLow, db.RiskLow))
	require.Equal(t, 20, score)
	require.Equal(t, db.RiskLow, tier)
}

func TestScoreMonotonicInFindings(t *testing.T) {
	findings := findingsOf(db.RiskMedium, db.RiskHigh)
	base, _ := Score(findings)

	grown, _ := Score(append(findings, db.Finding{Severity: db.RiskLow}))
	require.GreaterOrEqual(t, grown, base)
}

func TestDomainFindingSeverityByAge(t *testing.T) {
	age := func(days int) *db.DomainInfo {
		return &db.DomainInfo{
			Registrar:     "Test Registrar",
			CreationDate:  "2026-01-01T00:00:00Z",
			DomainAgeDays: &days,
		}
	}

	finding, ok := DomainFinding(age(10))
	require.True(t, ok)
	require.Equal(t, db.RiskHigh, finding.Severity)

	finding, ok = DomainFinding(age(30))
	require.True(t, ok)
	require.Equal(t, db.RiskMedium, finding.Severity)

	finding, ok = DomainFinding(age(179))
	require.True(t, ok)
	require.Equal(t, db.RiskMedium, finding.Severity)

	finding, ok = DomainFinding(age(180))
	require.True(t, ok)
	require.Equal(t, db.RiskLow, finding.Severity)

	require.Equal(t, "Domain Intelligence", finding.Category)
	require.Contains(t, finding.Description, "Age: 180 days")
	require.Contains(t, finding.Description, "Test Registrar")
}

func TestDomainFindingMissingInfo(t *testing.T) {
	_, ok := DomainFinding(nil)
	require.False(t, ok)

	_, ok = DomainFinding(&db.DomainInfo{Registrar: "Test Registrar"})
	require.False(t, ok)
}

func TestDomainFindingUnknownRegistrar(t *testing.T) {
	days := 400
	finding, ok := DomainFinding(&db.DomainInfo{DomainAgeDays: &days})
	require.True(t, ok)
	require.Contains(t, finding.Description, "Registrar: N/A.")
}

func TestMergeFindingsOrderAndDomainPrepend(t *testing.T) {
	general := []db.Finding{
		{Category: "Phishing", Severity: db.RiskHigh},
		{Category: "Malicious Script", Severity: db.RiskVeryHigh},
	}
	secrets := []db.Finding{
		{Category: "Exposed Secret", Severity: db.RiskHigh},
	}
	days := 5
	info := &db.DomainInfo{CreationDate: "2026-08-20T00:00:00Z", DomainAgeDays: &days}

	merged := MergeFindings(general, secrets, info)
	require.Len(t, merged, 4)
	require.Equal(t, "Domain Intelligence", merged[0].Category)
	require.Equal(t, "Phishing", merged[1].Category)
	require.Equal(t, "Malicious Script", merged[2].Category)
	require.Equal(t, "Exposed Secret", merged[3].Category)
}

func TestMergeFindingsDoesNotDeduplicate(t *testing.T) {
	dup := db.Finding{Category: "Phishing", Description: "same finding", Severity: db.RiskHigh}
	merged := MergeFindings([]db.Finding{dup}, []db.Finding{dup}, nil)
	require.Len(t, merged, 2)
	require.Equal(t, merged[0], merged[1])
}

func TestGradeAuditBoundaries(t *testing.T) {
	auditFindings := func(severities ...string) []db.AuditFinding {
		findings := make([]db.AuditFinding, 0, len(severities))
		for _, s := range severities {
			findings = append(findings, db.AuditFinding{Severity: s})
		}
		return findings
	}

	score, grade := GradeAudit(nil)
	require.Equal(t, 100, score)
	require.Equal(t, "A", grade)

	// 100 - 10 = 90 stays an A
	score, grade = GradeAudit(auditFindings("High"))
	require.Equal(t, 90, score)
	require.Equal(t, "A", grade)

	// 100 - 10 - 2 = 88
	score, grade = GradeAudit(auditFindings("High", "Low"))
	require.Equal(t, 88, score)
	require.Equal(t, "B", grade)

	// 100 - 3*10 = 70
	score, grade = GradeAudit(auditFindings("High", "High", "High"))
	require.Equal(t, 70, score)
	require.Equal(t, "C", grade)

	// 100 - 3*10 - 2*5 = 60
	score, grade = GradeAudit(auditFindings("High", "High", "High", "Medium", "Medium"))
	require.Equal(t, 60, score)
	require.Equal(t, "D", grade)

	// 100 - 4*10 - 5 = 55
	score, grade = GradeAudit(auditFindings("High", "High", "High", "High", "Medium"))
	require.Equal(t, 55, score)
	require.Equal(t, "F", grade)
}

func TestGradeAuditClampsAtZero(t *testing.T) {
	findings := make([]db.AuditFinding, 12)
	for i := range findings {
		findings[i] = db.AuditFinding{Severity: "High"}
	}

	score, grade := GradeAudit(findings)
	require.Equal(t, 0, score)
	require.Equal(t, "F", grade)
}
