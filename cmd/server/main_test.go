package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/infrastructure/config"
	"github.com/iho/pocketledger/internal/infrastructure/eventpublisher"
)

func TestBuildSourcesKeepsConfiguredOrder(t *testing.T) {
	cfg := &config.Config{
		FXSources:      []string{"cbr", "ecb"},
		FXFetchTimeout: time.Second,
	}

	sources, err := buildSources(cfg, domain.NewCurrencyRegistry("USD"))
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, domain.SourceCBR, sources[0].Kind())
	assert.Equal(t, domain.SourceECB, sources[1].Kind())
}

func TestBuildSourcesRequiresOne(t *testing.T) {
	_, err := buildSources(&config.Config{FXSources: []string{"bogus"}}, domain.NewCurrencyRegistry("USD"))
	assert.Error(t, err)
}

func TestNewPublisherFallsBackToLog(t *testing.T) {
	p, closeFn, err := newPublisher(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	_, ok := p.(*eventpublisher.LogPublisher)
	assert.True(t, ok)
}

func TestNewPublisherReportsDialFailure(t *testing.T) {
	_, _, err := newPublisher(&config.Config{AMQPURL: "not-a-url", AMQPExchange: "x"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestIgnoreCanceled(t *testing.T) {
	assert.NoError(t, ignoreCanceled(context.Canceled))
	assert.NoError(t, ignoreCanceled(fmt.Errorf("worker: %w", context.Canceled)))

	boom := errors.New("boom")
	assert.ErrorIs(t, ignoreCanceled(boom), boom)
}
