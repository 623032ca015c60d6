package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/codepair/codepair-server/internal/config"
	"github.com/codepair/codepair-server/internal/core"
	"github.com/codepair/codepair-server/internal/store"
	"github.com/codepair/codepair-server/internal/store/sqlite"
	"github.com/codepair/codepair-server/internal/suggest"
)

// startTestServer builds a server wired like production but with an
// in-memory store and a silent logger.
func startTestServer(t *testing.T) (*httptest.Server, *core.Registry, store.RoomStore) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.New(nil)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	cfg.SendTimeout = 2 * time.Second

	registry := core.NewRegistry(&logger)
	protocol := core.NewProtocol(registry, st, &logger)

	server := NewServer(registry, protocol, st, suggest.NewService(), &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, registry, st
}
