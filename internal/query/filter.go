package query

import (
	"strings"

	"github.com/fentz26/missionlog/internal/models"
)

// Predicate reports whether a result should be kept.
type Predicate func(r *models.MissionResult) bool

// OwnerPredicate keeps results owned by ownerID. An empty ownerID keeps all.
func OwnerPredicate(ownerID string) Predicate {
	return func(r *models.MissionResult) bool {
		return ownerID == "" || r.ClientID == ownerID
	}
}

// StatusPredicate keeps results whose status matches s.
func StatusPredicate(s StatusFilter) Predicate {
	s = ParseStatusFilter(string(s))
	return func(r *models.MissionResult) bool {
		return s == StatusAll || string(r.Status) == string(s)
	}
}

// CategoryPredicate keeps results whose category matches c.
func CategoryPredicate(c CategoryFilter) Predicate {
	c = ParseCategoryFilter(string(c))
	return func(r *models.MissionResult) bool {
		return c == CategoryAll || string(r.Category) == string(c)
	}
}

// SearchPredicate keeps results whose title contains term, ignoring case.
// A result without a title never matches a non-empty term.
func SearchPredicate(term string) Predicate {
	needle := strings.ToLower(term)
	return func(r *models.MissionResult) bool {
		if needle == "" {
			return true
		}
		return r.MissionTitle != "" && strings.Contains(strings.ToLower(r.MissionTitle), needle)
	}
}

// Predicates returns the conjunction terms for p.
func Predicates(p Params) []Predicate {
	return []Predicate{
		OwnerPredicate(p.OwnerID),
		StatusPredicate(p.Status),
		CategoryPredicate(p.Category),
		SearchPredicate(p.Search),
	}
}

// Match keeps results satisfying every predicate, preserving input order.
func Match(records []models.MissionResult, preds ...Predicate) []models.MissionResult {
	out := make([]models.MissionResult, 0, len(records))
	for i := range records {
		keep := true
		for _, pred := range preds {
			if !pred(&records[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, records[i])
		}
	}
	return out
}

// Filter applies the owner, status, category and search predicates of p.
func Filter(records []models.MissionResult, p Params) []models.MissionResult {
	return Match(records, Predicates(p)...)
}
