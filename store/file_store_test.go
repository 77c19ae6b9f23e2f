package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/VYD3N/tezos-music-player/model"
)

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	repo := NewFileRepository(path)
	ctx := context.Background()

	s := model.NewPlaylistStore()
	s.Playlists["p1"] = &model.Playlist{
		ID:        "p1",
		Name:      "Mix",
		TrackIDs:  []string{"t1", "t2"},
		CreatedAt: time.Now().Truncate(time.Second),
	}
	s.ActiveID = "p1"

	if err := repo.Save(ctx, s); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := loaded.Playlists["p1"]
	if p == nil || p.Name != "Mix" || len(p.TrackIDs) != 2 {
		t.Fatalf("round trip lost data: %+v", p)
	}
	if loaded.ActiveID != "p1" {
		t.Fatalf("active id = %q, want p1", loaded.ActiveID)
	}
}

func TestFileRepositoryMissingFileIsEmptyStore(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "absent.json"))

	s, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Playlists) != 0 || s.ActiveID != "" {
		t.Fatalf("expected empty store, got %+v", s)
	}
}

func TestFileRepositoryCorruptFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	repo := NewFileRepository(path)

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatal("expected error for corrupt store file")
	}
}

func TestFileRepositorySaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "playlists.json")
	repo := NewFileRepository(path)

	if err := repo.Save(context.Background(), model.NewPlaylistStore()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("store file missing: %v", err)
	}
}
