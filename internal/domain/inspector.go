package domain

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/scamscan/scamscan/internal/db"
)

// DefaultTimeout bounds a single registration-metadata lookup.
const DefaultTimeout = 15 * time.Second

// lookupFunc performs the blocking registry query for one hostname.
type lookupFunc func(host string) (*db.DomainInfo, error)

// Inspector performs registration-metadata lookups for hostnames. The
// blocking query runs on its own goroutine so it never stalls concurrent
// jobs; on timeout or failure the result is simply absent.
type Inspector struct {
	timeout time.Duration
	lookup  lookupFunc
}

// NewInspector creates an inspector backed by a WHOIS client.
func NewInspector() *Inspector {
	return &Inspector{timeout: DefaultTimeout, lookup: whoisLookup}
}

// Lookup returns registration metadata for rawURL's hostname, or nil when
// the lookup fails, times out, or yields no creation date. Domain
// intelligence is optional enrichment; this never returns an error.
func (i *Inspector) Lookup(ctx context.Context, rawURL string) *db.DomainInfo {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	host := u.Hostname()

	results := make(chan *db.DomainInfo, 1)
	go func() {
		info, err := i.lookup(host)
		if err != nil {
			log.Printf("WHOIS lookup failed for %s: %v", host, err)
			results <- nil
			return
		}
		results <- info
	}()

	select {
	case info := <-results:
		return info
	case <-time.After(i.timeout):
		log.Printf("WHOIS lookup for %s timed out", host)
		return nil
	case <-ctx.Done():
		return nil
	}
}

// whoisLookup queries the registry and normalizes the answer. A record
// without a creation date is treated as no information.
func whoisLookup(host string) (*db.DomainInfo, error) {
	raw, err := whois.Whois(host)
	if err != nil {
		return nil, err
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, err
	}

	info := &db.DomainInfo{}
	if parsed.Registrar != nil {
		info.Registrar = parsed.Registrar.Name
	}
	if parsed.Domain == nil || parsed.Domain.CreatedDateInTime == nil {
		return nil, nil
	}

	created := *parsed.Domain.CreatedDateInTime
	info.CreationDate = created.Format(time.RFC3339)
	age := int(time.Since(created).Hours() / 24)
	info.DomainAgeDays = &age

	if parsed.Domain.ExpirationDateInTime != nil {
		info.ExpirationDate = parsed.Domain.ExpirationDateInTime.Format(time.RFC3339)
	}

	return info, nil
}
