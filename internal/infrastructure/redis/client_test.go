package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientAppliesConfig(t *testing.T) {
	s := miniredis.RunT(t)

	ctx := context.Background()
	client, err := NewClient(ctx, ClientConfig{
		URL:        "redis://" + s.Addr() + "/2",
		PoolSize:   3,
		Timeout:    time.Second,
		ClientName: "pocketledger-test",
	})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	opts := client.Options()
	if opts.PoolSize != 3 || opts.ReadTimeout != time.Second || opts.DialTimeout != time.Second {
		t.Fatalf("options not applied: pool=%d read=%s dial=%s", opts.PoolSize, opts.ReadTimeout, opts.DialTimeout)
	}
	if opts.DB != 2 || opts.ClientName != "pocketledger-test" {
		t.Fatalf("expected db 2 and client name, got db=%d name=%q", opts.DB, opts.ClientName)
	}

	if err := client.Set(ctx, "fx:ping", "1", 0).Err(); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !s.DB(2).Exists("fx:ping") {
		t.Fatalf("expected key in db 2")
	}
}

func TestNewClientErrors(t *testing.T) {
	stopped := miniredis.RunT(t)
	stoppedURL := "redis://" + stopped.Addr()
	stopped.Close()

	tests := []struct {
		name string
		cfg  ClientConfig
	}{
		{"invalid url", ClientConfig{URL: "://bad-url"}},
		{"unsupported scheme", ClientConfig{URL: "http://localhost:6379"}},
		{"server down", ClientConfig{URL: stoppedURL, Timeout: 200 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(context.Background(), tt.cfg); err == nil {
				t.Fatalf("expected error for %+v", tt.cfg)
			}
		})
	}
}
