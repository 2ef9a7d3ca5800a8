package handler

import (
	"errors"
	"time"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
)

// Labels for MissingRates.
const (
	pathWrite     = "write"
	pathDisplay   = "display"
	pathMigration = "migration"
)

// observer records handler metrics. The zero value records nothing.
type observer struct {
	m *metrics.Metrics
}

func (o observer) conversion(from, to domain.CurrencyCode) {
	if o.m == nil || from == to {
		return
	}
	o.m.Conversions.WithLabelValues(from.String(), to.String()).Inc()
}

func (o observer) missingRate(path string) {
	if o.m != nil {
		o.m.MissingRates.WithLabelValues(path).Inc()
	}
}

// missingRateOn records a missing rate when err carries one.
func (o observer) missingRateOn(path string, err error) {
	if errors.Is(err, domain.ErrRateUnavailable) {
		o.missingRate(path)
	}
}

func (o observer) fallbackServed(snapshot *domain.RateSnapshot) {
	if o.m != nil && snapshot.IsFallback() {
		o.m.FallbackServed.Inc()
	}
}

func (o observer) migration(result string, rows int, elapsed time.Duration) {
	if o.m == nil {
		return
	}
	o.m.Migrations.WithLabelValues(result).Inc()
	o.m.MigrationDuration.Observe(elapsed.Seconds())
	if result == "migrated" {
		o.m.MigrationRows.Observe(float64(rows))
	}
}
