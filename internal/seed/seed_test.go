package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/missionlog/internal/audit"
	"github.com/fentz26/missionlog/internal/models"
	"github.com/fentz26/missionlog/internal/store"
)

const samplePath = "testdata/results.yaml"

func TestLoad_SampleFile(t *testing.T) {
	results, err := Load(samplePath)
	require.NoError(t, err)
	require.Len(t, results, 5)

	first := results[0]
	assert.Equal(t, "10K Steps Daily", first.MissionTitle)
	require.NotNil(t, first.CompletedDate)
	assert.Equal(t, 2024, first.StartDate.Year())
	steps, ok := first.Performance.(*models.StepsPerformance)
	require.True(t, ok, "got %T", first.Performance)
	assert.Equal(t, 15420, steps.BestDay)

	workout, ok := results[1].Performance.(*models.WorkoutPerformance)
	require.True(t, ok, "got %T", results[1].Performance)
	assert.Equal(t, 3, workout.WorkoutsCompleted)
	assert.Nil(t, results[1].CompletedDate)

	_, ok = results[3].Performance.(*models.CaloriesPerformance)
	assert.True(t, ok)
}

func TestParse_RejectsInvalid(t *testing.T) {
	data := []byte(`
results:
  - id: "x"
    status: failed
    progress: 20
    start_date: 2024-01-01T00:00:00Z
    end_date: 2024-01-02T00:00:00Z
    completed_date: 2024-01-02T00:00:00Z
`)
	_, err := Parse(data)
	assert.ErrorIs(t, err, models.ErrCompletedNotStatus)
}

func TestParse_MissingPerformance(t *testing.T) {
	data := []byte(`
results:
  - id: "y"
    mission_type: custom
    status: active
    start_date: 2024-01-01T00:00:00Z
    end_date: 2024-01-02T00:00:00Z
`)
	results, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Performance)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("results: [\n"))
	assert.Error(t, err)
}

func TestImporter_SkipsRepeatedBatch(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	im := NewImporter(st, audit.NewLedger(st), nil)

	sum, err := im.ImportFile(ctx, samplePath, false)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Imported)
	assert.False(t, sum.Skipped)

	sum, err = im.ImportFile(ctx, samplePath, false)
	require.NoError(t, err)
	assert.True(t, sum.Skipped)
	require.NotNil(t, sum.Previous)
	assert.Equal(t, 5, sum.Previous.RecordCount)

	sum, err = im.ImportFile(ctx, samplePath, true)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Imported)

	n, err := st.CountResults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "forced re-import replaces rows by id")

	imports, err := st.ListImports(ctx)
	require.NoError(t, err)
	assert.Len(t, imports, 2)
}

func TestImporter_FailedBatchLeavesNoTrace(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	results, err := Load(samplePath)
	require.NoError(t, err)
	results[3].Progress = 140 // fails validation after three rows were written

	im := NewImporter(st, audit.NewLedger(st), nil)
	_, err = im.Import(ctx, "broken.yaml", results, false)
	require.ErrorIs(t, err, models.ErrProgressRange)

	n, err := st.CountResults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	imports, err := st.ListImports(ctx)
	require.NoError(t, err)
	assert.Empty(t, imports)

	// the same batch, once fixed, imports normally
	results[3].Progress = 100
	sum, err := im.Import(ctx, "fixed.yaml", results, false)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.Imported)
}
