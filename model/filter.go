package model

// Search field names accepted by the text search. "title" and "artist" are the
// defaults when a caller supplies none.
const (
	FieldTitle    = "title"
	FieldArtist   = "artist"
	FieldGenre    = "genre"
	FieldMood     = "mood"
	FieldPlatform = "platform"
)

// DefaultSearchFields returns the default text-search field set.
func DefaultSearchFields() []string {
	return []string{FieldTitle, FieldArtist}
}

// Range is an inclusive [min,max] numeric constraint. A nil bound imposes no
// constraint on that side.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether v satisfies the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Empty reports whether the range constrains nothing.
func (r Range) Empty() bool {
	return r.Min == nil && r.Max == nil
}

// Criteria is a sparse set of categorical and range filters. Empty slices and
// empty ranges impose no constraint; tracks must satisfy every populated
// criterion (AND-conjunction). Categorical values match by set membership.
type Criteria struct {
	Artists   []string `json:"artists,omitempty"`
	Genres    []string `json:"genres,omitempty"`
	Moods     []string `json:"moods,omitempty"`
	Platforms []string `json:"platforms,omitempty"`

	Duration     Range `json:"duration,omitempty"`
	Tempo        Range `json:"tempo,omitempty"`
	Energy       Range `json:"energy,omitempty"`
	Danceability Range `json:"danceability,omitempty"`
}

// Empty reports whether no criterion is populated, i.e. the filter would
// return the full catalog.
func (c Criteria) Empty() bool {
	return len(c.Artists) == 0 && len(c.Genres) == 0 && len(c.Moods) == 0 &&
		len(c.Platforms) == 0 && c.Duration.Empty() && c.Tempo.Empty() &&
		c.Energy.Empty() && c.Danceability.Empty()
}

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// FilterState carries the complete view criteria for one composition pass:
// free-text query over a field set, categorical/range criteria, and a sort
// specification. It is passed by value and has no persisted identity.
type FilterState struct {
	Query    string   `json:"query"`
	Fields   []string `json:"fields,omitempty"`
	Criteria Criteria `json:"criteria"`
	SortBy   string   `json:"sortBy,omitempty"`
	SortDir  string   `json:"sortDir,omitempty"`
}
