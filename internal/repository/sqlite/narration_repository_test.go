package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sgharlow/adaptlearn/internal/repository/sqlite"
	"github.com/sgharlow/adaptlearn/internal/testutil"
)

func TestNarrationRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	repo := sqlite.NewNarrationRepository(db)
	ctx := context.Background()

	audio, err := repo.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, audio)

	require.NoError(t, repo.Put(ctx, "abc123", "nova", []byte("mp3 bytes")))

	audio, err = repo.Get(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, []byte("mp3 bytes"), audio)

	// Overwriting the same hash is allowed
	require.NoError(t, repo.Put(ctx, "abc123", "nova", []byte("newer bytes")))
	audio, err = repo.Get(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, []byte("newer bytes"), audio)

	// Nothing is old enough to prune yet
	n, err := repo.Prune(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = repo.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
