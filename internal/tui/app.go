// Package tui provides the interactive mission history viewer.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/query"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	statValueStyle = lipgloss.NewStyle().Bold(true).Foreground(cyanColor)
)

const loadTimeout = 10 * time.Second

// App is the main TUI application model.
type App struct {
	provider    query.Provider
	session     *query.Session
	view        query.View
	search      textinput.Model
	searching   bool
	selectedIdx int
	mode        string // "list" or "detail"
	width       int
	height      int
	message     string
	loading     bool
}

// New creates a viewer over provider, scoped to ownerID (empty for every
// client) and starting from params.
func New(provider query.Provider, ownerID string, params query.Params) *App {
	ti := textinput.New()
	ti.Placeholder = "search mission titles"
	ti.CharLimit = 128
	ti.Width = 40
	ti.SetValue(params.Search)

	a := &App{
		provider: provider,
		search:   ti,
		mode:     "list",
		width:    80,
		height:   24,
	}
	a.session = query.NewSession(provider, ownerID,
		query.WithParams(params),
		query.WithListener(a.onView),
	)
	a.view = a.session.View()
	return a
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Current returns the latest evaluation.
func (a *App) Current() query.View { return a.view }

// onView keeps the highlighted record selected across re-evaluations.
// When it drops out of the results the list is shown again.
func (a *App) onView(v query.View) {
	prev := a.Selected()
	a.view = v
	if prev != nil {
		for i, r := range v.Records {
			if r.ID == prev.ID {
				a.selectedIdx = i
				return
			}
		}
		a.mode = "list"
	}
	if a.selectedIdx >= len(v.Records) {
		a.selectedIdx = max(0, len(v.Records)-1)
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.fetch()
}

type resultsLoadedMsg struct {
	records []models.MissionResult
}

type errMsg struct{ err error }

func (a *App) fetch() tea.Cmd {
	a.loading = true
	owner := a.session.OwnerID()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		records, err := a.provider.FetchResults(ctx, owner)
		if err != nil {
			return errMsg{err}
		}
		return resultsLoadedMsg{records}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateKeys(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.search.Width = max(10, msg.Width-16)

	case resultsLoadedMsg:
		a.loading = false
		a.session.SetSource(msg.records)
		a.message = fmt.Sprintf("Loaded %d results", len(msg.records))

	case errMsg:
		a.loading = false
		a.message = "Error: " + msg.err.Error()
	}
	return a, nil
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		a.searching = false
		a.search.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != a.view.Params.Search {
		a.session.SetSearch(a.search.Value())
	}
	return a, cmd
}

func (a *App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "esc":
		if a.mode == "detail" {
			a.mode = "list"
		} else if a.view.Params.Search != "" {
			a.search.SetValue("")
			a.session.SetSearch("")
		}

	case "up", "k":
		if a.mode == "list" && a.selectedIdx > 0 {
			a.selectedIdx--
		}

	case "down", "j":
		if a.mode == "list" && a.selectedIdx < len(a.view.Records)-1 {
			a.selectedIdx++
		}

	case "enter":
		if a.mode == "list" && len(a.view.Records) > 0 {
			a.mode = "detail"
		}

	case "s":
		a.session.CycleStatus()
	case "c":
		a.session.CycleCategory()
	case "o":
		a.session.CycleSort()

	case "/":
		a.mode = "list"
		a.searching = true
		return a, a.search.Focus()

	case "r":
		return a, a.fetch()
	}
	return a, nil
}

// Selected returns the highlighted result, if any.
func (a *App) Selected() *models.MissionResult {
	if a.selectedIdx < 0 || a.selectedIdx >= len(a.view.Records) {
		return nil
	}
	r := a.view.Records[a.selectedIdx]
	return &r
}

// View implements tea.Model
func (a *App) View() string {
	var b strings.Builder

	scope := "all clients"
	if owner := a.session.OwnerID(); owner != "" {
		scope = "client " + owner
	}
	b.WriteString(titleStyle.Render("Mission History") + "  " + mutedStyle.Render(scope) + "\n")
	b.WriteString(a.renderStats() + "\n")
	b.WriteString(strings.Repeat("─", a.width) + "\n")

	p := a.view.Params
	filterLine := fmt.Sprintf(" Status: [%s]  Category: [%s]  Sort: [%s]",
		statusFilterNames[p.Status], categoryFilterNames[p.Category], sortKeyNames[p.Sort])
	b.WriteString(mutedStyle.Render(filterLine) + "\n")
	b.WriteString(inputBoxStyle.Render(a.search.View()) + "\n")

	contentHeight := a.height - 10
	if contentHeight < 5 {
		contentHeight = 5
	}

	switch a.mode {
	case "detail":
		b.WriteString(a.renderDetail())
	default:
		b.WriteString(a.renderList(contentHeight))
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}
	b.WriteString("\n")

	var status string
	switch {
	case a.searching:
		status = " Type to search | Enter/Esc:done | Ctrl+C:quit"
	case a.mode == "detail":
		status = " Esc:back | s:status c:category o:sort | q:quit"
	default:
		status = fmt.Sprintf(" Results: %d | ↑↓:nav | Enter:detail | s:status c:category o:sort /:search | r:reload | q:quit", len(a.view.Records))
	}
	b.WriteString(statusBarStyle.Width(a.width).Render(status))

	return b.String()
}

func (a *App) renderStats() string {
	st := a.view.Stats
	parts := []string{
		fmt.Sprintf("Missions %s", statValueStyle.Render(fmt.Sprintf("%d", st.TotalMissions))),
		fmt.Sprintf("Completed %s", statValueStyle.Render(fmt.Sprintf("%d", st.CompletedMissions))),
		fmt.Sprintf("Points %s", statValueStyle.Render(fmt.Sprintf("%d", st.TotalPointsEarned))),
		fmt.Sprintf("Avg %s", statValueStyle.Render(fmt.Sprintf("%.0f%%", st.AveragePerformance))),
		fmt.Sprintf("Success %s", statValueStyle.Render(fmt.Sprintf("%.0f%%", st.SuccessRate))),
	}
	return " " + strings.Join(parts, "   ")
}

func (a *App) renderList(height int) string {
	if a.loading && len(a.view.Records) == 0 {
		return "\n  Loading results...\n"
	}
	if len(a.view.Records) == 0 {
		return "\n  No mission results match the current filters.\n"
	}

	var lines []string
	for i, r := range a.view.Records {
		title := r.MissionTitle
		if title == "" {
			title = "(untitled)"
		}
		if i == a.selectedIdx {
			line := fmt.Sprintf("▶ %-28s %-10s %3d%%  %4d pts  %s",
				truncate(title, 28), lookup(statusDisplay, r.Status).Label, r.Progress, r.PointsEarned, r.StartDate.Format("Jan 02 2006"))
			lines = append(lines, selectedStyle.Render(line))
		} else {
			line := fmt.Sprintf("  %-28s %s %3d%%  %4d pts  %s",
				truncate(title, 28), lookup(statusDisplay, r.Status).render(), r.Progress, r.PointsEarned, r.StartDate.Format("Jan 02 2006"))
			lines = append(lines, itemStyle.Render(line))
		}
	}

	// Limit visible lines
	if len(lines) > height {
		start := a.selectedIdx - height/2
		if start < 0 {
			start = 0
		}
		end := start + height
		if end > len(lines) {
			end = len(lines)
			start = max(0, end-height)
		}
		lines = lines[start:end]
	}

	return strings.Join(lines, "\n")
}

func (a *App) renderDetail() string {
	r := a.Selected()
	if r == nil {
		return "\n  Nothing selected.\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  %s %s\n", r.Icon, lipgloss.NewStyle().Bold(true).Render(r.MissionTitle)))
	b.WriteString(fmt.Sprintf("  Status:     %s\n", lookup(statusDisplay, r.Status).render()))
	b.WriteString(fmt.Sprintf("  Category:   %s\n", lookup(categoryDisplay, r.Category).render()))
	b.WriteString(fmt.Sprintf("  Difficulty: %s\n", lookup(difficultyDisplay, r.Difficulty).render()))
	b.WriteString(fmt.Sprintf("  Target:     %s %s\n", formatNumber(r.TargetValue), r.TargetUnit))
	b.WriteString(fmt.Sprintf("  Progress:   %d%%  %s\n", r.Progress, progressBar(r.Progress, 20)))
	b.WriteString(fmt.Sprintf("  Points:     %d\n", r.PointsEarned))
	b.WriteString(fmt.Sprintf("  Period:     %s → %s\n", r.StartDate.Format("Jan 02 2006"), r.EndDate.Format("Jan 02 2006")))
	if r.CompletedDate != nil {
		b.WriteString(fmt.Sprintf("  Completed:  %s\n", r.CompletedDate.Format("Jan 02 2006 15:04")))
	}
	if lines := performanceLines(r.Performance); len(lines) > 0 {
		b.WriteString("\n  Performance:\n")
		for _, l := range lines {
			b.WriteString("    • " + l + "\n")
		}
	}
	if r.Notes != "" {
		b.WriteString("\n  " + mutedStyle.Render(r.Notes) + "\n")
	}
	return b.String()
}

func performanceLines(p models.Performance) []string {
	switch p := p.(type) {
	case *models.StepsPerformance:
		return []string{
			fmt.Sprintf("Average daily: %d steps", p.AverageDaily),
			fmt.Sprintf("Best day: %d steps", p.BestDay),
			fmt.Sprintf("Days completed: %d/%d", p.DaysCompleted, p.TotalDays),
			fmt.Sprintf("Efficiency: %.1f%%", p.Efficiency),
		}
	case *models.WorkoutPerformance:
		return []string{
			fmt.Sprintf("Workouts: %d/%d", p.WorkoutsCompleted, p.TotalWorkouts),
			fmt.Sprintf("Average duration: %d min", p.AverageDuration),
			fmt.Sprintf("Calories burned: %d", p.TotalCalories),
		}
	case *models.CaloriesPerformance:
		return []string{
			fmt.Sprintf("Average daily: %d kcal (target %d)", p.AverageDaily, p.TargetDaily),
			fmt.Sprintf("Days on target: %d/%d", p.DaysOnTarget, p.TotalDays),
		}
	case *models.ConsistencyPerformance:
		return []string{
			fmt.Sprintf("Current streak: %d days", p.CurrentStreak),
			fmt.Sprintf("Longest streak: %d days", p.LongestStreak),
			fmt.Sprintf("Days completed: %d/%d", p.DaysCompleted, p.TotalDays),
		}
	case *models.CustomPerformance:
		keys := make([]string, 0, len(p.Metrics))
		for k := range p.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s: %s", k, formatNumber(p.Metrics[k])))
		}
		return lines
	}
	return nil
}

func progressBar(pct, width int) string {
	pct = min(max(pct, 0), 100)
	filled := pct * width / 100
	return lipgloss.NewStyle().Foreground(successColor).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
