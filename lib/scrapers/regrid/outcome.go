package regrid

import (
	"sort"

	"deedscout-backend/lib/property"
	"deedscout-backend/lib/textutil"
)

type Status int

const (
	// StatusResolved means exactly one parcel matched and its detail
	// record was fetched.
	StatusResolved Status = iota
	// StatusNotFound means the search produced no matches.
	StatusNotFound
	// StatusMultiple means the search was ambiguous. Candidates holds
	// the choices ranked by similarity to the query.
	StatusMultiple
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusNotFound:
		return "not found"
	case StatusMultiple:
		return "multiple"
	}
	return "unknown"
}

// Candidate is one possible parcel from an ambiguous search.
type Candidate struct {
	ParcelId string
	Address  string
	City     string
	Owner    string
	Url      string
	// Score ranks how closely the candidate matches the query, 0..1.
	Score float64
}

// Result is the outcome of resolving one query.
type Result struct {
	Query      string
	Status     Status
	Supplement *property.Supplement
	Candidates []Candidate
	// SearchUrl points a human at the search page when the query did
	// not resolve to a single parcel.
	SearchUrl string
}

// rankCandidates scores each candidate against the query and sorts
// best first.
func rankCandidates(query string, candidates []Candidate) []Candidate {
	for i := range candidates {
		candidates[i].Score = textutil.Similarity(query, candidates[i].Address)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
