package server

import (
	"context"
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pentestreports/mcp-server/pkg/client"
	"github.com/pentestreports/mcp-server/pkg/storage"
)

func setupTestStorage(t *testing.T) (storage.Storage, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "server-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	cfg := storage.Config{
		DatabasePath: tmpFile.Name(),
		Debug:        false,
	}

	store, err := storage.NewSQLiteStorage(cfg)
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return store, cleanup
}

func testClient() *client.Client {
	return client.New(client.Config{BaseURL: "http://localhost:4000", BearerToken: "token"}, zerolog.New(os.Stderr))
}

func TestNewServer(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	impl := &mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}

	srv := NewServer(impl, testClient(), store)

	if srv == nil {
		t.Fatal("expected non-nil server")
	}
	if srv.api == nil {
		t.Fatal("expected non-nil API client in server")
	}
	if srv.storage == nil {
		t.Fatal("expected non-nil storage in server")
	}
}

func TestServer_Accessors(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	impl := &mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}
	api := testClient()

	srv := NewServer(impl, api, store)

	if srv.API() != api {
		t.Error("expected API() to return the wired client")
	}
	if srv.Storage() != store {
		t.Error("expected Storage() to return the wired store")
	}
}

func TestServer_Shutdown(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	impl := &mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}

	srv := NewServer(impl, testClient(), store)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestServer_ShutdownNilStorage(t *testing.T) {
	impl := &mcp.Implementation{
		Name:    "test-server",
		Version: "1.0.0",
	}

	srv := NewServer(impl, testClient(), nil)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("expected nil error with nil storage, got %v", err)
	}
}
