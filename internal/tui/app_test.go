package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/query"
)

func sampleResults() []models.MissionResult {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []models.MissionResult{
		{ID: "1", ClientID: "2", MissionTitle: "10K Steps Daily", MissionType: models.MissionTypeSteps,
			PointsEarned: 150, Status: models.StatusCompleted, Progress: 100, Category: models.CategoryFitness,
			StartDate: start, EndDate: start.AddDate(0, 0, 7),
			Performance: &models.StepsPerformance{AverageDaily: 11250, BestDay: 15420, DaysCompleted: 7, TotalDays: 7}},
		{ID: "2", ClientID: "2", MissionTitle: "Hydration Hero", MissionType: models.MissionTypeConsistency,
			PointsEarned: 100, Status: models.StatusCompleted, Progress: 100, Category: models.CategoryNutrition,
			StartDate: start.AddDate(0, 0, -14), EndDate: start.AddDate(0, 0, -7)},
		{ID: "3", ClientID: "2", MissionTitle: "Sleep Schedule Master", MissionType: models.MissionTypeConsistency,
			PointsEarned: 0, Status: models.StatusFailed, Progress: 45, Category: models.CategoryLifestyle,
			StartDate: start.AddDate(0, 0, -21), EndDate: start.AddDate(0, 0, -14)},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedApp returns an App whose initial fetch has completed.
func loadedApp(t *testing.T) *App {
	t.Helper()
	provider := query.ProviderFunc(func(_ context.Context, owner string) ([]models.MissionResult, error) {
		assert.Equal(t, "2", owner)
		return sampleResults(), nil
	})
	a := New(provider, "2", query.DefaultParams())
	msg := a.Init()()
	a.Update(msg)
	return a
}

func send(a *App, keys ...string) {
	for _, k := range keys {
		a.Update(key(k))
	}
}

func recordIDs(v query.View) []string {
	out := make([]string, len(v.Records))
	for i, r := range v.Records {
		out[i] = r.ID
	}
	return out
}

func TestApp_InitialLoad(t *testing.T) {
	a := loadedApp(t)
	v := a.Current()
	assert.Equal(t, []string{"1", "2", "3"}, recordIDs(v))
	assert.Equal(t, 250, v.Stats.TotalPointsEarned)
	assert.Contains(t, a.View(), "Mission History")
	assert.Contains(t, a.View(), "client 2")
}

func TestApp_FilterKeys(t *testing.T) {
	a := loadedApp(t)

	send(a, "s") // completed
	assert.Equal(t, []string{"1", "2"}, recordIDs(a.Current()))

	send(a, "s", "s") // expired, failed
	assert.Equal(t, []string{"3"}, recordIDs(a.Current()))

	send(a, "s", "c", "c") // all, nutrition
	assert.Equal(t, []string{"2"}, recordIDs(a.Current()))
	assert.Contains(t, a.View(), "NUTRITION")
}

func TestApp_SortKey(t *testing.T) {
	a := loadedApp(t)
	send(a, "o")
	assert.Equal(t, query.SortByPoints, a.Current().Params.Sort)
	assert.Equal(t, []string{"1", "2", "3"}, recordIDs(a.Current()))
	send(a, "o")
	assert.Equal(t, query.SortByPerformance, a.Current().Params.Sort)
}

func TestApp_Search(t *testing.T) {
	a := loadedApp(t)

	send(a, "/", "hyd")
	assert.True(t, a.searching)
	assert.Equal(t, []string{"2"}, recordIDs(a.Current()))

	// keys typed while searching go to the input
	send(a, "s")
	assert.Equal(t, "hyds", a.Current().Params.Search)
	assert.Empty(t, a.Current().Records)

	send(a, "enter", "esc")
	assert.False(t, a.searching)
	assert.Equal(t, "", a.Current().Params.Search)
	assert.Len(t, a.Current().Records, 3)
}

func TestApp_DetailView(t *testing.T) {
	a := loadedApp(t)

	send(a, "enter")
	assert.Equal(t, "detail", a.mode)
	out := a.View()
	assert.Contains(t, out, "10K Steps Daily")
	assert.Contains(t, out, "Best day: 15420 steps")

	send(a, "esc", "down")
	assert.Equal(t, "list", a.mode)
	require.NotNil(t, a.Selected())
	assert.Equal(t, "2", a.Selected().ID)
}

func TestApp_SelectionClampsToResults(t *testing.T) {
	a := loadedApp(t)
	send(a, "down", "down")
	assert.Equal(t, "3", a.Selected().ID)

	send(a, "s") // completed only
	require.NotNil(t, a.Selected())
	assert.Equal(t, "2", a.Selected().ID)
}

func TestApp_LoadError(t *testing.T) {
	provider := query.ProviderFunc(func(context.Context, string) ([]models.MissionResult, error) {
		return nil, errors.New("connection refused")
	})
	a := New(provider, "", query.DefaultParams())
	a.Update(a.Init()())

	assert.Empty(t, a.Current().Records)
	assert.Contains(t, a.View(), "Error: connection refused")
	assert.Contains(t, a.View(), "all clients")
}

func TestApp_Quit(t *testing.T) {
	a := loadedApp(t)
	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestPerformanceLines(t *testing.T) {
	assert.Nil(t, performanceLines(nil))
	lines := performanceLines(&models.CustomPerformance{Metrics: map[string]float64{"b": 2.5, "a": 1}})
	assert.Equal(t, []string{"a: 1", "b: 2.50"}, lines)
	assert.Len(t, performanceLines(&models.WorkoutPerformance{}), 3)
}

func TestApp_DetailFollowsRecordAcrossChanges(t *testing.T) {
	a := loadedApp(t)

	send(a, "down", "enter") // detail on "2"
	require.Equal(t, "2", a.Selected().ID)

	send(a, "o") // by points
	assert.Equal(t, "detail", a.mode)
	assert.Equal(t, "2", a.Selected().ID)

	// a reload without "1" moves "2" to the top
	a.Update(resultsLoadedMsg{records: sampleResults()[1:]})
	assert.Equal(t, "detail", a.mode)
	assert.Equal(t, 0, a.selectedIdx)
	assert.Equal(t, "2", a.Selected().ID)
	assert.Contains(t, a.View(), "Hydration Hero")
}

func TestApp_DetailClosesWhenRecordFilteredOut(t *testing.T) {
	a := loadedApp(t)

	send(a, "enter") // detail on "1"
	require.Equal(t, "1", a.Selected().ID)

	send(a, "s", "s", "s") // failed only
	assert.Equal(t, "list", a.mode)
	require.NotNil(t, a.Selected())
	assert.Equal(t, "3", a.Selected().ID)
}
