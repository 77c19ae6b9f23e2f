// Package compose derives the single ordered track list the UI renders from
// the base catalog, a free-text query, categorical/range criteria, and a sort
// specification.
package compose

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/VYD3N/tezos-music-player/core/catalog"
	"github.com/VYD3N/tezos-music-player/logger"
	"github.com/VYD3N/tezos-music-player/model"
)

// Composer resolves a FilterState into a track list. The strategy is
// server-delegated: the query or filter goes to the catalog backend first,
// and an empty remote result falls back to client-side recomputation over the
// last known full catalog. A legitimate zero-match and an unavailable backend
// are indistinguishable here; the fallback is deliberate, observed behavior.
type Composer struct {
	client *catalog.Client
}

// NewComposer creates a Composer over the given catalog client.
func NewComposer(client *catalog.Client) *Composer {
	return &Composer{client: client}
}

// Compose produces the ordered track list for the given state. The base
// catalog is never mutated; sorting happens on a copy.
func (c *Composer) Compose(ctx context.Context, state model.FilterState) []*model.Track {
	query := strings.TrimSpace(state.Query)

	var remote []*model.Track
	switch {
	case query != "":
		// Delegate the text match; remaining criteria apply client-side.
		remote = c.client.Search(ctx, query, state.Fields)
		remote = ApplyCriteria(remote, state.Criteria)
	case !state.Criteria.Empty():
		remote = c.client.Filter(ctx, state.Criteria)
	default:
		remote = c.client.FetchAll(ctx)
	}

	if len(remote) == 0 && (query != "" || !state.Criteria.Empty()) {
		logger.Debug("remote result empty, recomputing client-side",
			logger.String("query", query))
		remote = c.composeLocal(state)
	}

	return SortTracks(remote, state.SortBy, state.SortDir)
}

// composeLocal recomputes the list over the catalog snapshot.
func (c *Composer) composeLocal(state model.FilterState) []*model.Track {
	tracks := c.client.Snapshot()
	if strings.TrimSpace(state.Query) != "" {
		matched := make([]*model.Track, 0, len(tracks))
		for _, t := range tracks {
			if MatchQuery(t, state.Query, state.Fields) {
				matched = append(matched, t)
			}
		}
		tracks = matched
	}
	return ApplyCriteria(tracks, state.Criteria)
}

// fieldValue returns the track's value for a canonical string field name.
func fieldValue(t *model.Track, field string) (string, bool) {
	switch field {
	case model.FieldTitle:
		return t.Title, true
	case model.FieldArtist:
		return t.Artist, true
	case model.FieldGenre:
		return t.Genre, true
	case model.FieldPlatform:
		return t.Platform, true
	case model.FieldMood:
		return t.Mood, true
	default:
		return "", false
	}
}

// MatchQuery reports whether the query appears as a case-insensitive substring
// of any of the requested fields. An empty field set falls back to the
// defaults.
func MatchQuery(t *model.Track, query string, fields []string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if len(fields) == 0 {
		fields = model.DefaultSearchFields()
	}
	for _, f := range fields {
		value, ok := fieldValue(t, f)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(value), query) {
			return true
		}
	}
	return false
}

func inSet(value string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// ApplyCriteria returns the tracks satisfying every populated criterion.
// The input slice is not modified.
func ApplyCriteria(tracks []*model.Track, criteria model.Criteria) []*model.Track {
	if criteria.Empty() {
		return tracks
	}

	out := make([]*model.Track, 0, len(tracks))
	for _, t := range tracks {
		if !inSet(t.Artist, criteria.Artists) ||
			!inSet(t.Genre, criteria.Genres) ||
			!inSet(t.Mood, criteria.Moods) ||
			!inSet(t.Platform, criteria.Platforms) {
			continue
		}
		if !criteria.Duration.Contains(t.Duration) ||
			!criteria.Tempo.Contains(t.Tempo) ||
			!criteria.Energy.Contains(t.Energy) ||
			!criteria.Danceability.Contains(t.Danceability) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTracks stably sorts a copy of tracks by the named string field using
// locale-aware ordering. Descending direction reverses the comparator.
// An unrecognized or non-string sort key leaves the order unchanged.
func SortTracks(tracks []*model.Track, sortBy, dir string) []*model.Track {
	out := make([]*model.Track, len(tracks))
	copy(out, tracks)

	if sortBy == "" {
		return out
	}
	if _, ok := fieldValue(&model.Track{}, sortBy); !ok {
		return out
	}

	coll := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := fieldValue(out[i], sortBy)
		b, _ := fieldValue(out[j], sortBy)
		cmp := coll.CompareString(a, b)
		if dir == model.SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}
