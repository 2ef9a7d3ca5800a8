package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/iho/pocketledger/internal/adapter/http/dto"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/usecase"
)

// CurrencyMigrator moves a user's ledger to a new base currency.
type CurrencyMigrator interface {
	MigrateUserCurrency(ctx context.Context, userID, newCurrency string) (*usecase.MigrationResult, error)
}

// CurrencyHandler lists currencies and changes a user's base currency.
type CurrencyHandler struct {
	registry *domain.CurrencyRegistry
	migrator CurrencyMigrator
	observe  observer
}

// NewCurrencyHandler creates a new CurrencyHandler. m may be nil.
func NewCurrencyHandler(registry *domain.CurrencyRegistry, migrator CurrencyMigrator, m *metrics.Metrics) *CurrencyHandler {
	return &CurrencyHandler{
		registry: registry,
		migrator: migrator,
		observe:  observer{m: m},
	}
}

// List returns the supported currencies.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.CurrenciesFromRegistry(h.registry))
}

// ChangeUserCurrency rewrites the acting user's ledger into the
// requested currency. The same currency is a no-op.
func (h *CurrencyHandler) ChangeUserCurrency(w http.ResponseWriter, r *http.Request) {
	userID, ok := actingUser(w, r)
	if !ok {
		return
	}

	var req dto.ChangeCurrencyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Currency) == "" {
		writeError(w, http.StatusBadRequest, "currency is required", "")
		return
	}

	start := time.Now()
	result, err := h.migrator.MigrateUserCurrency(r.Context(), userID, req.Currency)
	if err != nil {
		h.observe.missingRateOn(pathMigration, err)
		outcome := "error"
		if mapDomainError(err) < http.StatusInternalServerError {
			outcome = "rejected"
		}
		h.observe.migration(outcome, 0, time.Since(start))

		writeDomainError(w, "failed to change currency", err)
		return
	}

	outcome := "noop"
	if result.Migrated {
		outcome = "migrated"
	}
	h.observe.migration(outcome, result.RowsUpdated, time.Since(start))

	writeJSON(w, http.StatusOK, dto.MigrationFromUseCase(result))
}
