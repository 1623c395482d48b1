package scanner

import (
	"context"
	"fmt"
	"strings"

	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/scoring"
	"github.com/scamscan/scamscan/internal/service"
)

// CodeAuditRequest describes one code-audit job. Exactly one of URL or
// Code is set; a github.com URL is cloned, any other URL is fetched as a
// single page.
type CodeAuditRequest struct {
	URL  string
	Code string
}

// StartCodeAudit schedules a code-audit job and returns its job id.
func (r *Runner) StartCodeAudit(req CodeAuditRequest) string {
	jobID := newJobID()
	go r.run(jobID, "code audit", func(ctx context.Context) error {
		return r.codeAudit(ctx, jobID, req)
	})
	return jobID
}

func (r *Runner) codeAudit(ctx context.Context, jobID string, req CodeAuditRequest) error {
	content, identifier, err := r.acquireCode(ctx, jobID, req)
	if err != nil {
		return err
	}

	r.hub.SendProgress(ctx, jobID, "Auditing source code...")
	audit, err := r.analyzer.AnalyzeCode(ctx, content)
	if err != nil {
		return err
	}

	site, err := service.GetOrCreateSite(r.db, identifier)
	if err != nil {
		return fmt.Errorf("preparing site record: %w", err)
	}

	findings := audit.DetailedAnalysis
	if findings == nil {
		findings = []db.AuditFinding{}
	}
	score, grade := scoring.GradeAudit(findings)

	result := &db.AuditResult{
		SiteID:           site.ID,
		SourceIdentifier: site.URL,
		OverallGrade:     grade,
		QualityScore:     score,
		Summary:          audit.Summary,
		DetailedAnalysis: findings,
	}

	if err := service.SaveAudit(r.db, result); err != nil {
		return fmt.Errorf("saving audit: %w", err)
	}

	r.hub.SendResult(ctx, jobID, result)
	return nil
}

func (r *Runner) acquireCode(ctx context.Context, jobID string, req CodeAuditRequest) (string, string, error) {
	if req.Code != "" {
		return req.Code, "manual_audit_" + jobID, nil
	}
	if req.URL == "" {
		return "", "", fmt.Errorf("either a URL or code must be provided")
	}

	if strings.Contains(req.URL, "github.com") {
		r.hub.SendProgress(ctx, jobID, fmt.Sprintf("Cloning repository from %s...", req.URL))
		content, err := cloneAndRead(ctx, req.URL, func(msg string) {
			r.hub.SendProgress(ctx, jobID, msg)
		})
		if err != nil {
			return "", "", err
		}
		return content, req.URL, nil
	}

	r.hub.SendProgress(ctx, jobID, fmt.Sprintf("Fetching content from %s...", req.URL))
	content, err := r.fetch.Fetch(ctx, req.URL)
	if err != nil {
		return "", "", err
	}
	normalized, err := normalizeURL(req.URL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL %q: %w", req.URL, err)
	}
	return content, normalized, nil
}
