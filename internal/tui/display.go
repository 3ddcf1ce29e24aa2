package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/query"
)

// display holds the presentation attributes of an enum tag.
type display struct {
	Label string
	Icon  string
	Color lipgloss.Color
}

func (d display) render() string {
	return lipgloss.NewStyle().Foreground(d.Color).Render(d.Icon + " " + d.Label)
}

var unknownDisplay = display{Label: "unknown", Icon: "?", Color: mutedColor}

var statusDisplay = map[models.Status]display{
	models.StatusCompleted: {Label: "completed", Icon: "✓", Color: successColor},
	models.StatusExpired:   {Label: "expired", Icon: "◷", Color: warningColor},
	models.StatusFailed:    {Label: "failed", Icon: "✗", Color: errorColor},
	models.StatusActive:    {Label: "active", Icon: "●", Color: cyanColor},
}

var categoryDisplay = map[models.Category]display{
	models.CategoryFitness:   {Label: "fitness", Icon: "♥", Color: lipgloss.Color("#EF4444")},
	models.CategoryNutrition: {Label: "nutrition", Icon: "◆", Color: lipgloss.Color("#10B981")},
	models.CategoryLifestyle: {Label: "lifestyle", Icon: "☾", Color: lipgloss.Color("#8B5CF6")},
	models.CategoryChallenge: {Label: "challenge", Icon: "★", Color: lipgloss.Color("#F59E0B")},
}

var difficultyDisplay = map[models.Difficulty]display{
	models.DifficultyEasy:    {Label: "easy", Icon: "▁", Color: successColor},
	models.DifficultyMedium:  {Label: "medium", Icon: "▃", Color: warningColor},
	models.DifficultyHard:    {Label: "hard", Icon: "▅", Color: lipgloss.Color("#F97316")},
	models.DifficultyExtreme: {Label: "extreme", Icon: "▇", Color: errorColor},
}

var statusFilterNames = map[query.StatusFilter]string{
	query.StatusAll:       "ALL",
	query.StatusCompleted: "COMPLETED",
	query.StatusExpired:   "EXPIRED",
	query.StatusFailed:    "FAILED",
}

var categoryFilterNames = map[query.CategoryFilter]string{
	query.CategoryAll:       "ALL",
	query.CategoryFitness:   "FITNESS",
	query.CategoryNutrition: "NUTRITION",
	query.CategoryLifestyle: "LIFESTYLE",
	query.CategoryChallenge: "CHALLENGE",
}

var sortKeyNames = map[query.SortKey]string{
	query.SortByDate:        "DATE",
	query.SortByPoints:      "POINTS",
	query.SortByPerformance: "PERFORMANCE",
}

func lookup[K comparable](table map[K]display, k K) display {
	if d, ok := table[k]; ok {
		return d
	}
	return unknownDisplay
}
