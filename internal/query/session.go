package query

import (
	"context"

	"github.com/fentz26/missionlog/internal/models"
)

// Provider supplies the full set of mission results, optionally scoped to
// one owner. An empty ownerID means every owner.
type Provider interface {
	FetchResults(ctx context.Context, ownerID string) ([]models.MissionResult, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, ownerID string) ([]models.MissionResult, error)

// FetchResults calls f.
func (f ProviderFunc) FetchResults(ctx context.Context, ownerID string) ([]models.MissionResult, error) {
	return f(ctx, ownerID)
}

// View is the output of one evaluation.
type View struct {
	Records []models.MissionResult `json:"results"`
	Stats   Stats                  `json:"stats"`
	Params  Params                 `json:"params"`
}

// Evaluate runs filter, sort and aggregation over records for p.
func Evaluate(records []models.MissionResult, p Params) View {
	p = p.Normalize()
	ordered := Sort(Filter(records, p), p.Sort)
	return View{
		Records: ordered,
		Stats:   Summarize(ordered),
		Params:  p,
	}
}

// Listener receives every view a Session publishes.
type Listener func(View)

// Session holds the query parameters of one viewer and re-evaluates the
// source snapshot whenever they change. It is not safe for concurrent use.
type Session struct {
	provider  Provider
	params    Params
	source    []models.MissionResult
	view      View
	listeners []Listener
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithListener registers l to receive published views.
func WithListener(l Listener) SessionOption {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// WithParams sets the initial filter, search and sort parameters. The
// owner scope of the session is not affected.
func WithParams(p Params) SessionOption {
	return func(s *Session) {
		owner := s.params.OwnerID
		s.params = p.Normalize()
		s.params.OwnerID = owner
	}
}

// NewSession creates a session scoped to ownerID for its whole lifetime.
func NewSession(provider Provider, ownerID string, opts ...SessionOption) *Session {
	s := &Session{provider: provider}
	s.params = DefaultParams()
	s.params.OwnerID = ownerID
	for _, opt := range opts {
		opt(s)
	}
	s.view = Evaluate(nil, s.params)
	return s
}

// Load (re)fetches the source records and publishes a fresh view. On error
// the previous view is kept.
func (s *Session) Load(ctx context.Context) (View, error) {
	records, err := s.provider.FetchResults(ctx, s.params.OwnerID)
	if err != nil {
		return s.view, err
	}
	return s.SetSource(records), nil
}

// SetSource replaces the source snapshot with records already fetched for
// this session's owner and publishes a fresh view.
func (s *Session) SetSource(records []models.MissionResult) View {
	s.source = records
	return s.evaluate()
}

// Params returns the current parameters.
func (s *Session) Params() Params { return s.params }

// View returns the most recently published view.
func (s *Session) View() View { return s.view }

// OwnerID returns the fixed owner scope.
func (s *Session) OwnerID() string { return s.params.OwnerID }

// SetParams replaces every parameter except the owner scope.
func (s *Session) SetParams(p Params) View {
	p.OwnerID = s.params.OwnerID
	s.params = p.Normalize()
	return s.evaluate()
}

func (s *Session) SetStatus(f StatusFilter) View     { return s.SetParams(s.params.WithStatus(f)) }
func (s *Session) SetCategory(f CategoryFilter) View { return s.SetParams(s.params.WithCategory(f)) }
func (s *Session) SetSearch(term string) View        { return s.SetParams(s.params.WithSearch(term)) }
func (s *Session) SetSort(k SortKey) View            { return s.SetParams(s.params.WithSort(k)) }

// CycleStatus advances to the next status filter.
func (s *Session) CycleStatus() View {
	return s.SetStatus(next(StatusFilters, s.params.Status))
}

// CycleCategory advances to the next category filter.
func (s *Session) CycleCategory() View {
	return s.SetCategory(next(CategoryFilters, s.params.Category))
}

// CycleSort advances to the next sort key.
func (s *Session) CycleSort() View {
	return s.SetSort(next(SortKeys, s.params.Sort))
}

func (s *Session) evaluate() View {
	s.view = Evaluate(s.source, s.params)
	for _, l := range s.listeners {
		l(s.view)
	}
	return s.view
}
