package changeset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormkit/changeset-go/changeset"
	"github.com/ormkit/changeset-go/testutil"
)

func Test_ChangeDetector_RecordsMetricsForPrepareAndDiff(t *testing.T) {
	metrics := testutil.NewMetricsCollectorSpy()
	detector := newDetector(t, changeset.WithMetrics(metrics))

	book := testutil.NewSavedBook("Go", testutil.NewSavedAuthor("Jane", "jane@example.com"))

	before, err := detector.PrepareEntity(book)
	require.NoError(t, err)

	book.Set("title", "Go v2")
	after, err := detector.PrepareEntity(book)
	require.NoError(t, err)

	detector.Diff(before, after)

	durations := metrics.DurationRecords()
	require.Len(t, durations, 3)
	assert.Equal(t, "changeset.prepare.duration", durations[0].Metric)
	assert.Equal(t, map[string]string{"entity_type": testutil.BookType}, durations[0].Labels)
	assert.Equal(t, "changeset.prepare.duration", durations[1].Metric)
	assert.Equal(t, "changeset.diff.duration", durations[2].Metric)

	counters := metrics.CounterRecords()
	require.Len(t, counters, 3)
	assert.Equal(t, "changeset.prepare.total", counters[0].Metric)
	assert.Equal(t, "changeset.diff.total", counters[2].Metric)

	values := metrics.ValueRecords()
	require.Len(t, values, 1)
	assert.Equal(t, "changeset.diff.changed_fields", values[0].Metric)
	assert.Equal(t, float64(1), values[0].Value)
}

func Test_ChangeDetector_LogsAtDebugLevel(t *testing.T) {
	logger := testutil.NewLoggerSpy()
	detector := newDetector(t, changeset.WithLogger(logger))

	author := testutil.NewSavedAuthor("Jane", "jane@example.com")

	snapshot, err := detector.PrepareEntity(author)
	require.NoError(t, err)

	detector.Diff(snapshot, snapshot)

	messages := logger.MessagesAtLevel("debug")
	assert.Equal(t, []string{"entity normalized", "snapshots diffed"}, messages)
	assert.Empty(t, logger.MessagesAtLevel("error"))
}

func Test_ChangeDetector_LogsMetadataLookupFailures(t *testing.T) {
	logger := testutil.NewLoggerSpy()
	detector := newDetector(t, changeset.WithLogger(logger))

	_, err := detector.PrepareEntity(changeset.BuildEntity("Nowhere"))
	require.ErrorIs(t, err, changeset.ErrMetadataNotFound)

	messages := logger.MessagesAtLevel("error")
	assert.Equal(t, []string{"resolving entity metadata failed"}, messages)
}

func Test_ChangeDetector_WorksWithoutObservability(t *testing.T) {
	detector := newDetector(t)

	author := testutil.NewSavedAuthor("Jane", "jane@example.com")

	snapshot, err := detector.PrepareEntity(author)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		detector.Diff(snapshot, snapshot)
	})
}
