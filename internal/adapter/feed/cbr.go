package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/iho/pocketledger/internal/domain"
)

const cbrDateLayout = "02.01.2006"

// CBRSource reads the Central Bank of Russia daily table. The feed quotes
// RUB per Nominal units of each currency, so rates are inverted into
// units of quote per one RUB.
type CBRSource struct {
	fetcher
}

// NewCBRSource creates a CBR source.
func NewCBRSource(opts Options) *CBRSource {
	return &CBRSource{fetcher: newFetcher(opts.withDefaults(DefaultCBRURL))}
}

func (s *CBRSource) Kind() domain.RateSourceKind { return domain.SourceCBR }

func (s *CBRSource) Base() domain.CurrencyCode { return domain.RUB }

func (s *CBRSource) Fetch(ctx context.Context) (*domain.RateSnapshot, error) {
	body, err := s.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching cbr feed: %w", err)
	}

	return s.parse(body)
}

type cbrValCurs struct {
	XMLName xml.Name    `xml:"ValCurs"`
	Date    string      `xml:"Date,attr"`
	Valutes []cbrValute `xml:"Valute"`
}

type cbrValute struct {
	CharCode string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

func (s *CBRSource) parse(body []byte) (*domain.RateSnapshot, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader

	var doc cbrValCurs
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing cbr feed: %w", err)
	}

	asOf, err := time.Parse(cbrDateLayout, strings.TrimSpace(doc.Date))
	if err != nil {
		return nil, fmt.Errorf("parsing cbr feed date %q: %w", doc.Date, err)
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal, len(doc.Valutes))
	for _, v := range doc.Valutes {
		code, ok := s.accept(v.CharCode, domain.RUB)
		if !ok {
			continue
		}

		nominal, err := parseCBRNumber(v.Nominal)
		if err != nil || !nominal.IsPositive() {
			continue
		}

		value, err := parseCBRNumber(v.Value)
		if err != nil || !value.IsPositive() {
			continue
		}

		rates[code] = nominal.Div(value).Round(rateScale)
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("cbr feed: %w", domain.ErrEmptyFeed)
	}

	return &domain.RateSnapshot{
		Base:      domain.RUB,
		AsOf:      asOf,
		Source:    domain.SourceCBR,
		Rates:     rates,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// parseCBRNumber handles the decimal comma used by the feed.
func parseCBRNumber(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	return decimal.NewFromString(s)
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
}
