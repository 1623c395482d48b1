package scanner

import (
	"context"
	"fmt"

	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/scoring"
	"github.com/scamscan/scamscan/internal/service"
)

// SecretsScanRequest describes one secrets-only scan. Exactly one of URL
// or Content is set.
type SecretsScanRequest struct {
	URL     string
	Content string
}

// StartSecretsScan schedules a secrets-only scan and returns its job id.
func (r *Runner) StartSecretsScan(req SecretsScanRequest) string {
	jobID := newJobID()
	go r.run(jobID, "secrets scan", func(ctx context.Context) error {
		return r.secretsScan(ctx, jobID, req)
	})
	return jobID
}

func (r *Runner) secretsScan(ctx context.Context, jobID string, req SecretsScanRequest) error {
	var content, identifier string
	switch {
	case req.URL != "":
		r.hub.SendProgress(ctx, jobID, fmt.Sprintf("Fetching content from %s...", req.URL))
		fetched, err := r.fetch.Fetch(ctx, req.URL)
		if err != nil {
			return err
		}
		normalized, err := normalizeURL(req.URL)
		if err != nil {
			return fmt.Errorf("invalid URL %q: %w", req.URL, err)
		}
		content, identifier = fetched, normalized
	case req.Content != "":
		content, identifier = req.Content, "manual_scan_"+jobID
	default:
		return fmt.Errorf("either a URL or content must be provided")
	}

	r.hub.SendProgress(ctx, jobID, "Scanning for exposed secrets...")
	analysis, err := r.analyzer.AnalyzeSecrets(ctx, content)
	if err != nil {
		return err
	}

	site, err := service.GetOrCreateSite(r.db, identifier)
	if err != nil {
		return fmt.Errorf("preparing site record: %w", err)
	}

	findings := analysis.DetailedAnalysis
	if findings == nil {
		findings = []db.Finding{}
	}
	score, tier := scoring.Score(findings)

	result := &db.AnalysisResult{
		SiteID:           site.ID,
		SiteURL:          site.URL,
		OverallRisk:      tier,
		RiskScore:        score,
		Summary:          "Secrets scan completed.",
		DetailedAnalysis: findings,
	}

	if err := service.SaveAnalysis(r.db, result); err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	r.hub.SendResult(ctx, jobID, result)
	return nil
}
