package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/missionlog/internal/config"
	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/query"
)

const seedFile = "../../internal/seed/testdata/results.yaml"

// execute runs the root command with args against an isolated config and
// database and returns its stdout.
func execute(t *testing.T, dir string, args ...string) string {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", filepath.Join(dir, "missionlog.db"),
		"--log-level", "error",
	}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// so values from an earlier Execute do not leak into the next one.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestFlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir := t.TempDir()
	execute(t, dir, "import", seedFile)

	out := execute(t, dir, "history", "--status", "failed", "--sort", "points", "--json")
	var view query.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, query.StatusFailed, view.Params.Status)

	out = execute(t, dir, "history", "--json")
	view = query.View{}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, query.StatusAll, view.Params.Status)
	assert.Equal(t, query.SortByDate, view.Params.Sort)
	assert.Len(t, view.Records, 5)

	out = execute(t, dir, "import", seedFile, "--force")
	assert.Contains(t, out, "Imported 5 results")
	out = execute(t, dir, "import", seedFile)
	assert.Contains(t, out, "Already imported", "--force must not carry over")
}

func TestTruncateKeepsUTF8(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 40, "short"},
		{"Desafio de hidratação diária — água! sem açúcar", 40, "Desafio de hidratação diária — água! ..."},
		{"日本語のミッションタイトル", 8, "日本語のミ..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d): expected %q, got %q", tt.in, tt.n, tt.want, got)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}

	var buf bytes.Buffer
	writeHistory(&buf, query.View{Records: []models.MissionResult{{
		ID: "pt-1", MissionTitle: "Desafio de hidratação diária — água! sem açúcar", Status: models.StatusCompleted,
	}}})
	assert.True(t, utf8.Valid(buf.Bytes()))
	assert.Contains(t, buf.String(), "Desafio de hidratação diária — água! ...")
}

func TestImportThenHistory(t *testing.T) {
	dir := t.TempDir()

	out := execute(t, dir, "import", seedFile)
	assert.Contains(t, out, "Imported 5 results")

	out = execute(t, dir, "import", seedFile)
	assert.Contains(t, out, "Already imported")

	out = execute(t, dir, "imports")
	assert.Contains(t, out, "results.yaml")
	assert.Equal(t, 2, strings.Count(out, "\n"), "header plus one ledger entry")

	out = execute(t, dir, "history", "--owner", "2", "--status", "completed", "--sort", "points", "--json")
	var view query.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Records, 2)
	assert.Equal(t, "1", view.Records[0].ID)
	assert.Equal(t, "3", view.Records[1].ID)
	assert.Equal(t, 250, view.Stats.TotalPointsEarned)
	assert.Equal(t, query.SortByPoints, view.Params.Sort)
	_, ok := view.Records[0].Performance.(*models.StepsPerformance)
	assert.True(t, ok, "got %T", view.Records[0].Performance)
}

func TestApplyOverrides(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().StringVar(&dbPath, "db", "", "")
	c.Flags().StringVar(&apiAddr, "api", "", "")
	c.Flags().StringVar(&logLevel, "log-level", "", "")
	require.NoError(t, c.Flags().Set("db", "/tmp/other.db"))

	conf := config.DefaultConfig()
	conf.LogLevel = "warn"
	applyOverrides(conf, c)

	assert.Equal(t, "/tmp/other.db", conf.DBPath)
	assert.Empty(t, conf.APIAddr)
	assert.Equal(t, "warn", conf.LogLevel)
}

func TestViewParams_ConfigDefaults(t *testing.T) {
	cfg = config.DefaultConfig()
	cfg.DefaultSort = "performance"
	cfg.DefaultOwner = "3"

	p := viewParams("", "Expired", "bogus", "run", "")
	assert.Equal(t, "3", p.OwnerID)
	assert.Equal(t, query.StatusExpired, p.Status)
	assert.Equal(t, query.CategoryAll, p.Category)
	assert.Equal(t, "run", p.Search)
	assert.Equal(t, query.SortByPerformance, p.Sort)

	p = viewParams("2", "", "", "", "points")
	assert.Equal(t, "2", p.OwnerID)
	assert.Equal(t, query.SortByPoints, p.Sort)
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	writeHistory(&buf, query.View{
		Records: []models.MissionResult{{
			ID: "abcdef123456", MissionTitle: "Hydration Hero", Category: models.CategoryNutrition,
			Status: models.StatusCompleted, Progress: 100, PointsEarned: 100,
		}},
		Stats: query.Stats{TotalMissions: 1, CompletedMissions: 1, TotalPointsEarned: 100, AveragePerformance: 100, SuccessRate: 100},
	})

	out := buf.String()
	assert.Contains(t, out, "abcdef12 ")
	assert.Contains(t, out, "Hydration Hero")
	assert.Contains(t, out, "  -  ") // unassigned client
	assert.True(t, strings.HasSuffix(out, "1 missions, 1 completed, 100 points, 100.0% average progress, 100.0% success rate\n"))

	buf.Reset()
	writeHistory(&buf, query.View{})
	assert.Contains(t, buf.String(), "No mission results found")
	assert.Contains(t, buf.String(), "0 missions")
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("http://127.0.0.1:7467"))
	assert.True(t, isLoopback("http://localhost:7467"))
	assert.False(t, isLoopback("http://10.0.0.5:7467"))
	assert.False(t, isLoopback("::bad"))
}

func TestVersion(t *testing.T) {
	out := execute(t, t.TempDir(), "version")
	assert.Equal(t, "missionlog dev\n", out)
}
