package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/pocketledger/internal/adapter/http/dto"
	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/metrics"
	"github.com/iho/pocketledger/internal/usecase"
)

// RatesReader serves the current snapshot.
type RatesReader interface {
	GetCurrentRates(ctx context.Context) *domain.RateSnapshot
}

// RatesRefresher acquires a new snapshot on demand.
type RatesRefresher interface {
	RefreshNow(ctx context.Context) (*domain.RateSnapshot, error)
}

// DisplayConverter converts amounts for presentation.
type DisplayConverter interface {
	ConvertForDisplay(ctx context.Context, amount decimal.Decimal, from, to string) usecase.DisplayConversion
}

// RateHandler handles rate-related HTTP requests.
type RateHandler struct {
	rates     RatesReader
	refresher RatesRefresher
	converter DisplayConverter
	observe   observer
}

// NewRateHandler creates a new RateHandler. m may be nil.
func NewRateHandler(rates RatesReader, refresher RatesRefresher, converter DisplayConverter, m *metrics.Metrics) *RateHandler {
	return &RateHandler{
		rates:     rates,
		refresher: refresher,
		converter: converter,
		observe:   observer{m: m},
	}
}

// Current returns the snapshot conversions currently run against.
func (h *RateHandler) Current(w http.ResponseWriter, r *http.Request) {
	snapshot := h.rates.GetCurrentRates(r.Context())
	h.observe.fallbackServed(snapshot)

	writeJSON(w, http.StatusOK, dto.RatesFromDomain(snapshot))
}

// Refresh fetches and stores a new snapshot.
func (h *RateHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.refresher.RefreshNow(r.Context())
	if err != nil {
		writeDomainError(w, "failed to refresh rates", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RatesFromDomain(snapshot))
}

// Convert converts ?amount from ?from to ?to. Missing rates leave the
// amount unchanged and set degraded.
func (h *RateHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, ok := domain.ParseAmount(q.Get("amount")).Decimal()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid amount", q.Get("amount"))
		return
	}

	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required", "")
		return
	}

	conv := h.converter.ConvertForDisplay(r.Context(), amount, from, to)
	if conv.Degraded {
		h.observe.missingRate(pathDisplay)
	} else {
		h.observe.conversion(conv.From, conv.To)
	}

	writeJSON(w, http.StatusOK, dto.ConversionFromUseCase(conv))
}
