// Package scanner sequences the fetch/crawl, domain-intelligence,
// analysis, scoring and persistence stages for each scan job. Every job
// runs on its own goroutine, started after the triggering request has
// already returned its job id; failures after that point surface only on
// the job's notification channel.
package scanner

import (
	"context"
	"log"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/analyzer"
	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/notifier"
)

// ContentAnalyzer is the slice of *analyzer.Analyzer the orchestrators
// use; tests substitute canned models.
type ContentAnalyzer interface {
	AnalyzeGeneral(ctx context.Context, content string) (*analyzer.Analysis, error)
	AnalyzeSecrets(ctx context.Context, content string) (*analyzer.Analysis, error)
	AnalyzeCode(ctx context.Context, content string) (*analyzer.Audit, error)
}

// Fetcher retrieves one resource's textual content.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// DomainInspector returns registration metadata, or nil when unavailable.
type DomainInspector interface {
	Lookup(ctx context.Context, rawURL string) *db.DomainInfo
}

// Runner owns the collaborators shared by all scan jobs. Jobs do not
// share any other mutable state; each persistence call runs on the
// injected *gorm.DB whose pooling isolates concurrent sessions.
type Runner struct {
	db       *gorm.DB
	hub      *notifier.Hub
	analyzer ContentAnalyzer
	fetch    Fetcher
	domains  DomainInspector
	maxPages int
}

// NewRunner wires a runner. maxPages bounds deep crawls; <= 0 selects the
// crawler default.
func NewRunner(dbConn *gorm.DB, hub *notifier.Hub, contentAnalyzer ContentAnalyzer, fetch Fetcher, domains DomainInspector, maxPages int) *Runner {
	return &Runner{
		db:       dbConn,
		hub:      hub,
		analyzer: contentAnalyzer,
		fetch:    fetch,
		domains:  domains,
		maxPages: maxPages,
	}
}

// run executes one job body on the calling goroutine with the shared
// failure protocol: log, send one error progress message, and always
// unregister the job's channel.
func (r *Runner) run(jobID, kind string, body func(ctx context.Context) error) {
	ctx := context.Background()
	defer r.hub.Unregister(jobID)

	if err := body(ctx); err != nil {
		log.Printf("Error in %s task for job %s: %v", kind, jobID, err)
		r.hub.SendProgress(ctx, jobID, "An error occurred during analysis: "+err.Error())
		return
	}
	log.Printf("%s task for job %s finished", kind, jobID)
}

// newJobID returns an opaque job identifier.
func newJobID() string {
	return uuid.NewString()
}

// normalizeURL strips query and fragment from a raw URL, the identity
// under which sites are stored.
func normalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
