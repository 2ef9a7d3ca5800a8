// Package feed implements the central-bank rate sources. Each source
// fetches one daily XML table and turns it into a domain.RateSnapshot.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

const (
	DefaultECBURL  = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"
	DefaultCBRURL  = "https://www.cbr.ru/scripts/XML_daily.asp"
	DefaultTimeout = 10 * time.Second

	// rateScale is the number of decimal places kept for derived rates.
	rateScale = 10

	maxBodySize = 1 << 20
)

// Options configures a rate source.
type Options struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Registry   *domain.CurrencyRegistry
}

func (o Options) withDefaults(defaultURL string) Options {
	if o.URL == "" {
		o.URL = defaultURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if o.Registry == nil {
		o.Registry = domain.NewCurrencyRegistry(domain.USD.String())
	}
	return o
}

// NewSource returns the source for kind.
func NewSource(kind domain.RateSourceKind, opts Options) (usecase.RateSource, error) {
	switch kind {
	case domain.SourceECB:
		return NewECBSource(opts), nil
	case domain.SourceCBR:
		return NewCBRSource(opts), nil
	default:
		return nil, fmt.Errorf("unknown rate source %q", kind)
	}
}

// fetcher holds the HTTP plumbing shared by every source.
type fetcher struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	registry   *domain.CurrencyRegistry
}

func newFetcher(opts Options) fetcher {
	return fetcher{
		url:        opts.URL,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		registry:   opts.Registry,
	}
}

func (f fetcher) get(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}

// accept reports whether code should be kept in a snapshot based on base.
func (f fetcher) accept(code string, base domain.CurrencyCode) (domain.CurrencyCode, bool) {
	if !f.registry.IsSupported(code) {
		return "", false
	}

	c := f.registry.Normalize(code)
	return c, c != base
}
