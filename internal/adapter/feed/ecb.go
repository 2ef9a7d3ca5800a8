package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/domain"
)

// ECBSource reads the European Central Bank daily reference rates. Rates
// are quoted per one EUR.
type ECBSource struct {
	fetcher
}

// NewECBSource creates an ECB source.
func NewECBSource(opts Options) *ECBSource {
	return &ECBSource{fetcher: newFetcher(opts.withDefaults(DefaultECBURL))}
}

func (s *ECBSource) Kind() domain.RateSourceKind { return domain.SourceECB }

func (s *ECBSource) Base() domain.CurrencyCode { return domain.EUR }

// Fetch downloads and parses the feed. Only the most recent day of the
// envelope is used.
func (s *ECBSource) Fetch(ctx context.Context) (*domain.RateSnapshot, error) {
	body, err := s.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching ecb feed: %w", err)
	}

	return s.parse(body)
}

type ecbEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Days    []ecbDay `xml:"Cube>Cube"`
}

type ecbDay struct {
	Time  string    `xml:"time,attr"`
	Rates []ecbRate `xml:"Cube"`
}

type ecbRate struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

func (s *ECBSource) parse(body []byte) (*domain.RateSnapshot, error) {
	var env ecbEnvelope
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&env); err != nil {
		return nil, fmt.Errorf("parsing ecb feed: %w", err)
	}

	var (
		latest ecbDay
		asOf   time.Time
	)
	for _, day := range env.Days {
		t, err := time.Parse(time.DateOnly, day.Time)
		if err != nil {
			continue
		}
		if t.After(asOf) {
			asOf, latest = t, day
		}
	}

	if asOf.IsZero() {
		return nil, fmt.Errorf("ecb feed: %w", domain.ErrEmptyFeed)
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(latest.Rates))
	for _, r := range latest.Rates {
		code, ok := s.accept(r.Currency, domain.EUR)
		if !ok {
			continue
		}

		rate, err := decimal.NewFromString(r.Rate)
		if err != nil || !rate.IsPositive() {
			continue
		}

		rates[code] = rate
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("ecb feed: %w", domain.ErrEmptyFeed)
	}

	return &domain.RateSnapshot{
		Base:      domain.EUR,
		AsOf:      asOf,
		Source:    domain.SourceECB,
		Rates:     rates,
		FetchedAt: time.Now().UTC(),
	}, nil
}
