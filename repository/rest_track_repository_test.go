package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/VYD3N/tezos-music-player/model"
)

func newRESTServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, TrackRepository) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	repo := NewRESTTrackRepository(srv.URL, "audio_nfts", "test-key", 100)
	return srv, repo
}

func TestRESTFetchAll(t *testing.T) {
	var gotPath string
	var gotAPIKey, gotAuth string
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 7, "name": "Glass Waves", "artist_name": "Zara", "artifact_uri": "ipfs://QmAudio"},
			{"id": "8", "name": "Afterglow", "artist": "Moss", "playback_url": "https://cdn/x.mp3"}
		]`))
	})

	got, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if gotPath != "/rest/v1/audio_nfts" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAPIKey != "test-key" || gotAuth != "Bearer test-key" {
		t.Fatalf("auth headers = %q / %q", gotAPIKey, gotAuth)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	// Numeric and string ids both decode; title comes from "name".
	if got[0].ID != "7" || got[0].Title != "Glass Waves" {
		t.Fatalf("row 0 = %+v", got[0])
	}
	if got[1].ID != "8" {
		t.Fatalf("row 1 id = %q", got[1].ID)
	}
}

func TestRESTArtistNameFallback(t *testing.T) {
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "1", "name": "A", "artist_name": "Primary", "artist": "Secondary"},
			{"id": "2", "name": "B", "artist": "Secondary"}
		]`))
	})

	got, err := repo.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got[0].Artist != "Primary" {
		t.Fatalf("artist_name should win, got %q", got[0].Artist)
	}
	if got[1].Artist != "Secondary" {
		t.Fatalf("artist fallback failed, got %q", got[1].Artist)
	}
}

func TestRESTSearchBuildsOrGroup(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	if _, err := repo.Search(context.Background(), "glass", nil); err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Default fields are title and artist; title maps to the legacy "name"
	// column on the hosted table.
	if or := gotQuery.Get("or"); or != "(name.ilike.*glass*,artist.ilike.*glass*)" {
		t.Fatalf("or group = %q", or)
	}
}

func TestRESTSearchEscapesReservedCharacters(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	if _, err := repo.Search(context.Background(), "a,b(c)", nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if or := gotQuery.Get("or"); strings.Contains(or, "a,b(c)") {
		t.Fatalf("reserved characters leaked into or group: %q", or)
	}
}

func TestRESTSearchMoodField(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	if _, err := repo.Search(context.Background(), "calm", []string{model.FieldMood}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if or := gotQuery.Get("or"); or != "(mood.ilike.*calm*)" {
		t.Fatalf("or group = %q", or)
	}
}

func TestRESTSearchEscapesLikeWildcards(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	if _, err := repo.Search(context.Background(), "100%_mix", nil); err != nil {
		t.Fatalf("Search: %v", err)
	}
	or := gotQuery.Get("or")
	if !strings.Contains(or, `100\%\_mix`) {
		t.Fatalf("wildcards not escaped in or group: %q", or)
	}
}

func TestRESTFilterQuotesReservedValues(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	criteria := model.Criteria{Artists: []string{"Artist, The", "Moss"}}
	if _, err := repo.Filter(context.Background(), criteria); err != nil {
		t.Fatalf("Filter: %v", err)
	}

	if got := gotQuery.Get("artist"); got != `in.("Artist, The",Moss)` {
		t.Fatalf("artist param = %q", got)
	}
}

func TestRESTFilterOperators(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	min, max := 100.0, 250.0
	criteria := model.Criteria{
		Genres:   []string{"ambient", "techno"},
		Duration: model.Range{Min: &min, Max: &max},
	}
	if _, err := repo.Filter(context.Background(), criteria); err != nil {
		t.Fatalf("Filter: %v", err)
	}

	if got := gotQuery.Get("genre"); got != "in.(ambient,techno)" {
		t.Fatalf("genre param = %q", got)
	}
	durations := gotQuery["duration"]
	if len(durations) != 2 || durations[0] != "gte.100" || durations[1] != "lte.250" {
		t.Fatalf("duration params = %v", durations)
	}
}

func TestRESTGetByID(t *testing.T) {
	var gotQuery url.Values
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		if gotQuery.Get("id") == "eq.1" {
			w.Write([]byte(`[{"id": "1", "name": "Glass Waves"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})

	track, err := repo.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if track == nil || track.Title != "Glass Waves" {
		t.Fatalf("lookup failed: %+v", track)
	}

	missing, err := repo.GetByID(context.Background(), "999")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if missing != nil {
		t.Fatalf("missing row should be nil, got %+v", missing)
	}
}

func TestRESTErrorStatus(t *testing.T) {
	_, repo := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	})

	if _, err := repo.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestInspectAnonKey(t *testing.T) {
	// Unsigned JWT with role/ref claims; the signature is never verified.
	key := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJyb2xlIjoiYW5vbiIsInJlZiI6ImFiY2RlZmdoIiwiZXhwIjoxOTAwMDAwMDAwfQ." +
		"c2lnbmF0dXJl"

	info, err := InspectAnonKey(key)
	if err != nil {
		t.Fatalf("InspectAnonKey: %v", err)
	}
	if info.Role != "anon" || info.Ref != "abcdefgh" {
		t.Fatalf("claims = %+v", info)
	}
	if info.ExpiresAt.IsZero() {
		t.Fatal("expiry claim not decoded")
	}
}

func TestInspectAnonKeyInvalid(t *testing.T) {
	if _, err := InspectAnonKey("not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed key")
	}
}
