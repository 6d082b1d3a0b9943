package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"battleships/internal/apperrors"
	"battleships/internal/config"
	"battleships/internal/database"
	"battleships/internal/db"
	"battleships/internal/repository"

	"github.com/rs/zerolog"
)

func newPlayers(t *testing.T) *repository.PlayerRepository {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return repository.NewPlayerRepository(sqlDB, db.New(sqlDB), zerolog.Nop())
}

func identityServer(t *testing.T, known ...string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /players/{username}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("username")
		for _, k := range known {
			if k == name {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"username":"` + name + `"}`))
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /broken/players/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLocalDirectory(t *testing.T) {
	players := newPlayers(t)
	ctx := context.Background()
	if _, err := players.Create(ctx, "alice", "hash"); err != nil {
		t.Fatal(err)
	}

	dir := NewLocalDirectory(players)
	p, err := dir.LookupPlayer(ctx, "alice")
	if err != nil {
		t.Fatalf("LookupPlayer: %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("username = %q", p.Username)
	}

	_, err = dir.LookupPlayer(ctx, "ghost")
	if !apperrors.HasCode(err, apperrors.CodePlayerNotFound) {
		t.Fatalf("expected PLAYER_NOT_FOUND, got %v", err)
	}
}

func TestRemoteDirectoryMirrorsPlayers(t *testing.T) {
	players := newPlayers(t)
	srv := identityServer(t, "bob")
	dir := NewRemoteDirectory(srv.URL, time.Second, players, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := dir.LookupPlayer(ctx, "bob")
	if err != nil {
		t.Fatalf("LookupPlayer: %v", err)
	}
	if p.ID == "" || p.Username != "bob" {
		t.Fatalf("player = %+v", p)
	}

	stored, err := players.GetByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("player was not mirrored: %v", err)
	}
	if stored.ID != p.ID {
		t.Errorf("mirrored id %s, returned %s", stored.ID, p.ID)
	}

	again, err := dir.LookupPlayer(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != p.ID {
		t.Errorf("second lookup created a new player")
	}
}

func TestRemoteDirectoryNotFound(t *testing.T) {
	players := newPlayers(t)
	srv := identityServer(t)
	dir := NewRemoteDirectory(srv.URL, time.Second, players, zerolog.Nop())

	_, err := dir.LookupPlayer(context.Background(), "ghost")
	if !apperrors.HasCode(err, apperrors.CodePlayerNotFound) {
		t.Fatalf("expected PLAYER_NOT_FOUND, got %v", err)
	}
}

func TestRemoteDirectoryUpstreamError(t *testing.T) {
	players := newPlayers(t)
	srv := identityServer(t, "bob")
	dir := NewRemoteDirectory(srv.URL+"/broken", time.Second, players, zerolog.Nop())

	_, err := dir.LookupPlayer(context.Background(), "bob")
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.HasCode(err, apperrors.CodePlayerNotFound) {
		t.Fatalf("upstream failure reported as not found: %v", err)
	}
}

func TestNewDirectoryChoosesByConfig(t *testing.T) {
	players := newPlayers(t)

	if _, ok := NewDirectory(&config.Config{}, players, zerolog.Nop()).(*LocalDirectory); !ok {
		t.Error("expected local directory without IDENTITY_URL")
	}
	cfg := &config.Config{IdentityURL: "http://identity.local", IdentityTimeout: time.Second}
	if _, ok := NewDirectory(cfg, players, zerolog.Nop()).(*RemoteDirectory); !ok {
		t.Error("expected remote directory with IDENTITY_URL")
	}
}
