package scanner

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"

	"github.com/scamscan/scamscan/internal/crawler"
	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/scoring"
	"github.com/scamscan/scamscan/internal/service"
)

// ScamScanRequest describes one scam-scan job. Exactly one of URL or HTML
// is set. Nil toggles fall back to the stored settings defaults.
type ScamScanRequest struct {
	URL               string
	HTML              string
	ScanDepth         string // "deep" or "shallow"
	UseSecretsScanner *bool
	UseDomainAnalyzer *bool
}

// StartScamScan schedules a scam-scan job and returns its id immediately.
func (r *Runner) StartScamScan(req ScamScanRequest) string {
	jobID := newJobID()
	go r.run(jobID, "scam scan", func(ctx context.Context) error {
		return r.scamScan(ctx, jobID, req)
	})
	return jobID
}

func (r *Runner) scamScan(ctx context.Context, jobID string, req ScamScanRequest) error {
	useSecrets, useDomain := r.resolveToggles(req)

	content, identifier, err := r.acquireContent(ctx, jobID, req)
	if err != nil {
		return err
	}

	// Domain lookup only makes sense when a real URL was scanned.
	var domainInfo *db.DomainInfo
	if req.HTML == "" && useDomain {
		r.hub.SendProgress(ctx, jobID, "Performing domain intelligence lookup...")
		domainInfo = r.domains.Lookup(ctx, req.URL)
		if domainInfo == nil {
			r.hub.SendProgress(ctx, jobID, "Domain intelligence unavailable, continuing...")
		}
	}

	site, err := service.GetOrCreateSite(r.db, identifier)
	if err != nil {
		return fmt.Errorf("preparing site record: %w", err)
	}

	secretFindings := []db.Finding{}
	if useSecrets {
		r.hub.SendProgress(ctx, jobID, "Scanning for exposed secrets...")
		secretAnalysis, err := r.analyzer.AnalyzeSecrets(ctx, content)
		if err != nil {
			return err
		}
		secretFindings = secretAnalysis.DetailedAnalysis
	}

	r.hub.SendProgress(ctx, jobID, "Analyzing for malicious patterns...")
	general, err := r.analyzer.AnalyzeGeneral(ctx, content)
	if err != nil {
		return err
	}

	findings := scoring.MergeFindings(general.DetailedAnalysis, secretFindings, domainInfo)
	score, tier := scoring.Score(findings)

	result := &db.AnalysisResult{
		SiteID:           site.ID,
		SiteURL:          site.URL,
		OverallRisk:      tier,
		RiskScore:        score,
		Summary:          general.Summary,
		DetailedAnalysis: findings,
		DomainInfo:       datatypes.NewJSONType(domainInfo),
	}

	r.hub.SendProgress(ctx, jobID, "Saving analysis results...")
	if err := service.SaveAnalysis(r.db, result); err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}

	r.hub.SendResult(ctx, jobID, result)
	return nil
}

// acquireContent returns the aggregated content to analyze plus the site
// identifier it is stored under.
func (r *Runner) acquireContent(ctx context.Context, jobID string, req ScamScanRequest) (string, string, error) {
	if req.HTML != "" {
		r.hub.SendProgress(ctx, jobID, "Analyzing provided content...")
		return req.HTML, "manual_analysis_" + jobID, nil
	}

	identifier, err := normalizeURL(req.URL)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL %q: %w", req.URL, err)
	}

	if req.ScanDepth != "deep" {
		r.hub.SendProgress(ctx, jobID, fmt.Sprintf("Fetching content from %s...", req.URL))
		content, err := r.fetch.Fetch(ctx, req.URL)
		if err != nil {
			return "", "", err
		}
		return content, identifier, nil
	}

	c := crawler.New(r.db, r.fetch, r.maxPages)
	err = c.Crawl(ctx, req.URL, func(msg string) {
		r.hub.SendProgress(ctx, jobID, msg)
	})
	if err != nil {
		return "", "", fmt.Errorf("crawling %s: %w", req.URL, err)
	}

	site, err := service.GetSiteWithSubPages(r.db, identifier)
	if err != nil {
		return "", "", fmt.Errorf("site %s not found after crawl: %w", identifier, err)
	}

	parts := make([]string, 0, len(site.SubPages))
	for _, page := range site.SubPages {
		parts = append(parts, page.Content)
	}
	return strings.Join(parts, " "), identifier, nil
}

// resolveToggles applies the stored settings defaults to unset request
// toggles.
func (r *Runner) resolveToggles(req ScamScanRequest) (useSecrets, useDomain bool) {
	useSecrets, useDomain = true, true
	settings, err := service.GetSettings(r.db)
	if err != nil {
		log.Printf("Could not load settings defaults: %v", err)
	} else {
		useSecrets = settings.DefaultUseSecretsScanner
		useDomain = settings.DefaultUseDomainAnalyzer
	}

	if req.UseSecretsScanner != nil {
		useSecrets = *req.UseSecretsScanner
	}
	if req.UseDomainAnalyzer != nil {
		useDomain = *req.UseDomainAnalyzer
	}
	return useSecrets, useDomain
}
