package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		err := store.Append(ctx, Entry{
			ScriptPath:  "narration/demo-script.txt",
			OutputPath:  "narration/demo-voiceover.m4a",
			Engine:      "system",
			Voice:       "Daniel",
			RateWPM:     175 + i,
			DurationSec: 120.5,
			SizeBytes:   1024,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	builds, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, builds, 2)

	// Newest first.
	assert.Equal(t, 177, builds[0].RateWPM)
	assert.Equal(t, 176, builds[1].RateWPM)
	assert.Equal(t, "Daniel", builds[0].Voice)
	assert.Equal(t, "system", builds[0].Engine)
	assert.Equal(t, 120.5, builds[0].DurationSec)
	assert.Equal(t, int64(1024), builds[0].SizeBytes)
	assert.WithinDuration(t, base.Add(2*time.Minute), builds[0].CreatedAt, time.Second)
}

func TestStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	builds, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, builds)
}
