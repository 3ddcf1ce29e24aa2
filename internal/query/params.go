// Package query implements the in-memory filter, sort and aggregation
// engine over mission results.
package query

import (
	"strings"

	"github.com/fentz26/missionlog/internal/models"
)

// StatusFilter selects results by outcome. StatusAll disables the filter.
type StatusFilter string

// CategoryFilter selects results by category. CategoryAll disables the filter.
type CategoryFilter string

// SortKey selects the ordering of results.
type SortKey string

const (
	StatusAll       StatusFilter = "all"
	StatusCompleted StatusFilter = StatusFilter(models.StatusCompleted)
	StatusExpired   StatusFilter = StatusFilter(models.StatusExpired)
	StatusFailed    StatusFilter = StatusFilter(models.StatusFailed)

	CategoryAll       CategoryFilter = "all"
	CategoryFitness   CategoryFilter = CategoryFilter(models.CategoryFitness)
	CategoryNutrition CategoryFilter = CategoryFilter(models.CategoryNutrition)
	CategoryLifestyle CategoryFilter = CategoryFilter(models.CategoryLifestyle)
	CategoryChallenge CategoryFilter = CategoryFilter(models.CategoryChallenge)

	SortByDate        SortKey = "date"
	SortByPoints      SortKey = "points"
	SortByPerformance SortKey = "performance"
)

// StatusFilters, CategoryFilters and SortKeys list the accepted values in
// display order.
var (
	StatusFilters   = []StatusFilter{StatusAll, StatusCompleted, StatusExpired, StatusFailed}
	CategoryFilters = []CategoryFilter{CategoryAll, CategoryFitness, CategoryNutrition, CategoryLifestyle, CategoryChallenge}
	SortKeys        = []SortKey{SortByDate, SortByPoints, SortByPerformance}
)

// ParseStatusFilter maps s onto a StatusFilter. Unrecognised input is StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	return parseEnum(s, StatusFilters, StatusAll)
}

// ParseCategoryFilter maps s onto a CategoryFilter. Unrecognised input is CategoryAll.
func ParseCategoryFilter(s string) CategoryFilter {
	return parseEnum(s, CategoryFilters, CategoryAll)
}

// ParseSortKey maps s onto a SortKey. Unrecognised input is SortByDate.
func ParseSortKey(s string) SortKey {
	return parseEnum(s, SortKeys, SortByDate)
}

func parseEnum[T ~string](s string, values []T, def T) T {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range values {
		if string(v) == s {
			return v
		}
	}
	return def
}

// Params is the full set of query inputs. It is a value type; the With
// methods return modified copies.
type Params struct {
	OwnerID  string         `json:"owner_id,omitempty"` // empty means every owner
	Status   StatusFilter   `json:"status"`
	Category CategoryFilter `json:"category"`
	Search   string         `json:"search,omitempty"`
	Sort     SortKey        `json:"sort"`
}

// DefaultParams returns the parameters of an unfiltered, date-ordered query.
func DefaultParams() Params {
	return Params{Status: StatusAll, Category: CategoryAll, Sort: SortByDate}
}

// Normalize replaces unrecognised enum values with their defaults.
func (p Params) Normalize() Params {
	p.Status = ParseStatusFilter(string(p.Status))
	p.Category = ParseCategoryFilter(string(p.Category))
	p.Sort = ParseSortKey(string(p.Sort))
	return p
}

func (p Params) WithStatus(s StatusFilter) Params     { p.Status = s; return p.Normalize() }
func (p Params) WithCategory(c CategoryFilter) Params { p.Category = c; return p.Normalize() }
func (p Params) WithSearch(term string) Params        { p.Search = term; return p }
func (p Params) WithSort(k SortKey) Params            { p.Sort = k; return p.Normalize() }

func next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
