package search

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestIndex creates a temporary note index for testing.
func setupTestIndex(t *testing.T) *NoteIndex {
	t.Helper()
	index, err := Open(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	return index
}

var base = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func note(id, userID int64, content string) *domain.NoteDocument {
	return &domain.NoteDocument{
		NoteID:    id,
		UserID:    userID,
		Content:   content,
		CreatedAt: base.Add(time.Duration(id) * time.Minute),
	}
}

func TestOpen_Empty(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearch_SubstringCaseAndAccents(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexNote(ctx, note(1, 7, "<p>Packed the <b>Cat</b> carrier</p>")))
	require.NoError(t, index.IndexNote(ctx, note(2, 7, "<p>Café crème at noon</p>")))
	require.NoError(t, index.IndexNote(ctx, note(3, 7, "<p>concatenate strings</p>")))

	tests := []struct {
		query string
		want  []int64
	}{
		{"cat", []int64{3, 1}},
		{"CAT carrier", []int64{1}},
		{"cafe", []int64{2}},
		{"CRÈME", []int64{2}},
		{"ate", []int64{3}},
		{"zebra", []int64{}},
		{"   ", []int64{}},
		{"", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := index.Search(ctx, 7, tt.query, 50)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_MarkupIsNotSearchable(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexNote(ctx, note(1, 7, `<p><span style="color: #ef4444">red</span></p>`)))

	got, err := index.Search(ctx, 7, "span", 50)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = index.Search(ctx, 7, "red", 50)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got)
}

func TestSearch_ScopedToUser(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexNote(ctx, note(1, 7, "<p>shared word</p>")))
	require.NoError(t, index.IndexNote(ctx, note(2, 8, "<p>shared word</p>")))

	got, err := index.Search(ctx, 8, "shared", 50)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, got)
}

func TestSearch_LimitKeepsNewest(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		require.NoError(t, index.IndexNote(ctx, note(id, 7, "<p>daily log</p>")))
	}

	got, err := index.Search(ctx, 7, "log", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 4}, got)
}

func TestIndexNote_ReplacesAndDeletes(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexNote(ctx, note(1, 7, "<p>before</p>")))
	require.NoError(t, index.IndexNote(ctx, note(1, 7, "<p>after</p>")))

	got, _ := index.Search(ctx, 7, "before", 50)
	assert.Empty(t, got)
	got, _ = index.Search(ctx, 7, "after", 50)
	assert.Equal(t, []int64{1}, got)

	require.NoError(t, index.DeleteNotes(ctx, 1, 99))
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	require.NoError(t, index.DeleteNotes(ctx))
}

func TestIndexAll(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	docs := make([]*domain.NoteDocument, 0, batchSize+3)
	for id := int64(1); id <= batchSize+3; id++ {
		docs = append(docs, note(id, 7, "<p>bulk</p>"))
	}
	seq := func(yield func(*domain.NoteDocument, error) bool) {
		for _, d := range docs {
			if !yield(d, nil) {
				return
			}
		}
	}

	n, err := index.IndexAll(ctx, seq)
	require.NoError(t, err)
	assert.Equal(t, batchSize+3, n)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(batchSize+3), count)
}

func TestOpen_ReopensAndRebuildsOnVersionChange(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	index, err := Open(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexNote(ctx, note(1, 7, "<p>kept</p>")))
	require.NoError(t, index.Close())

	index, err = Open(Options{DataPath: dir})
	require.NoError(t, err)
	count, _ := index.DocumentCount()
	assert.Equal(t, uint64(1), count)
	require.NoError(t, index.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.version"), []byte("0"), 0o600))
	index, err = Open(Options{DataPath: dir})
	require.NoError(t, err)
	defer index.Close()
	count, _ = index.DocumentCount()
	assert.Equal(t, uint64(0), count)

	version, err := os.ReadFile(filepath.Join(dir, "notes.version"))
	require.NoError(t, err)
	assert.Equal(t, mappingVersion, string(version))
}

func TestRebuild(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexNote(ctx, note(1, 7, "<p>x</p>")))
	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearch_PunctuationOnly(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.IndexNote(context.Background(), note(1, 7, "<p>Why?</p>")))

	_, err := index.Search(context.Background(), 7, " ?! ", 50)
	assert.ErrorIs(t, err, ErrNoTerms)
}

func TestQueryTokens(t *testing.T) {
	index := setupTestIndex(t)

	assert.Equal(t, []string{"cafe", "creme"}, index.queryTokens("Café-Crème"))
	assert.Empty(t, index.queryTokens("  "))
	assert.True(t, slices.Equal([]string{"don", "t"}, index.queryTokens("don't")) ||
		slices.Equal([]string{"don't"}, index.queryTokens("don't")))
}
