package index

import (
	"fmt"
	"iter"
	"strings"
	"time"
	"unicode"

	"github.com/katalvlaran/civicindex/request"
)

// Affinity turns shared request attributes into an edge distance. Each
// shared attribute subtracts its points from Base; the distance never drops
// below 1. Requests sharing nothing are not linked.
type Affinity struct {
	Base     int64 `json:"base"`
	Location int64 `json:"location"` // same non-empty location, case-insensitive
	Category int64 `json:"category"` // same non-empty category, case-insensitive
	Status   int64 `json:"status"`   // same lifecycle status
	SameDay  int64 `json:"same_day"` // submitted within 24h of each other
	Keyword  int64 `json:"keyword"`  // titles share a word of minKeywordLen+ letters
}

// minKeywordLen skips short words such as "on", "the" and "st".
const minKeywordLen = 4

// sameDay is the submission window for the SameDay points.
const sameDay = 24 * time.Hour

// DefaultAffinity weighs location over category over timing.
func DefaultAffinity() Affinity {
	return Affinity{Base: 10, Location: 6, Category: 4, Status: 1, SameDay: 2, Keyword: 1}
}

// Validate rejects a non-positive Base and negative points.
func (a Affinity) Validate() error {
	if a.Base < 1 {
		return fmt.Errorf("%w: affinity base %d", ErrOptionViolation, a.Base)
	}
	if a.Location < 0 || a.Category < 0 || a.Status < 0 || a.SameDay < 0 || a.Keyword < 0 {
		return fmt.Errorf("%w: negative affinity points", ErrOptionViolation)
	}
	return nil
}

// Score sums the points for every attribute x and y share.
func (a Affinity) Score(x, y *request.Request) int64 {
	var s int64
	if sameText(x.Location, y.Location) {
		s += a.Location
	}
	if sameText(x.Category, y.Category) {
		s += a.Category
	}
	if x.Status == y.Status {
		s += a.Status
	}
	if withinDay(x.SubmittedAt, y.SubmittedAt) {
		s += a.SameDay
	}
	if shareKeyword(x.Title, y.Title) {
		s += a.Keyword
	}
	return s
}

// Distance returns the edge weight between x and y, and false when they
// share no attribute.
func (a Affinity) Distance(x, y *request.Request) (int64, bool) {
	s := a.Score(x, y)
	if s <= 0 {
		return 0, false
	}
	return max(1, a.Base-s), true
}

func sameText(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

func withinDay(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= sameDay
}

func shareKeyword(a, b string) bool {
	words := keywords(a)
	if len(words) == 0 {
		return false
	}
	for w := range keywordSeq(b) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

func keywords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for w := range keywordSeq(s) {
		out[w] = struct{}{}
	}
	return out
}

// keywordSeq yields the lower-cased letter runs of s that are at least
// minKeywordLen long.
func keywordSeq(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !unicode.IsLetter(r) }) {
			if len([]rune(f)) >= minKeywordLen && !yield(f) {
				return
			}
		}
	}
}
