package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/meetrelay-server/internal/auth"
	"github.com/vovakirdan/meetrelay-server/internal/config"
	"github.com/vovakirdan/meetrelay-server/internal/core"
	"github.com/vovakirdan/meetrelay-server/internal/store"
	"github.com/vovakirdan/meetrelay-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}

// historyRecorder persists authenticated joins the way the application
// wiring does.
type historyRecorder struct {
	st store.MeetingStore
}

func (r historyRecorder) RecordJoin(ctx context.Context, userID int64, _ string, roomID string, at time.Time) error {
	_, err := r.st.AddMeeting(ctx, userID, roomID, at)
	return err
}

// startTestServer wires the full router (REST + WebSocket) against an
// in-memory store and returns the running test server.
func startTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()

	st := createTestStore(t)
	authService := createTestAuthService(t, st, "test-secret-change-me")

	logger := zerolog.Nop()
	hub := core.NewHub(core.NewRegistry(50), historyRecorder{st: st}, &logger)

	cfg := config.Default()
	srv := NewServer(hub, authService, st, &cfg, &logger)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return ts, authService
}
