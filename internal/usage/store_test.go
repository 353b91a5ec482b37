package usage

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", DataFileName), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemStore(),
		"sqlite": setupSQLite(t),
	}
}

func TestStore_Counters(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v, err := s.Get(ctx, KeyTotalCalculations)
			require.NoError(t, err)
			assert.Zero(t, v)

			v, err = s.Increment(ctx, KeyTotalCalculations, 1)
			require.NoError(t, err)
			assert.Equal(t, int64(1), v)

			v, err = s.Increment(ctx, KeyTotalCalculations, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(3), v)

			require.NoError(t, s.Set(ctx, KeyLastScore, 55))
			require.NoError(t, s.Set(ctx, KeyLastScore, 46))
			v, err = s.Get(ctx, KeyLastScore)
			require.NoError(t, err)
			assert.Equal(t, int64(46), v)
		})
	}
}

func TestStore_ResetKeepsPreferences(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Increment(ctx, KeyFIPSuspicions, 4)
			require.NoError(t, err)
			require.NoError(t, s.SetPreference(ctx, PrefLanguage, "fr"))

			require.NoError(t, s.Reset(ctx))

			v, err := s.Get(ctx, KeyFIPSuspicions)
			require.NoError(t, err)
			assert.Zero(t, v)
			lang, err := s.Preference(ctx, PrefLanguage)
			require.NoError(t, err)
			assert.Equal(t, "fr", lang)
		})
	}
}

func TestStore_Preferences(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			v, err := s.Preference(ctx, PrefLanguage)
			require.NoError(t, err)
			assert.Empty(t, v)

			require.NoError(t, s.SetPreference(ctx, PrefLanguage, "fr"))
			require.NoError(t, s.SetPreference(ctx, PrefLanguage, "en"))
			v, err = s.Preference(ctx, PrefLanguage)
			require.NoError(t, err)
			assert.Equal(t, "en", v)
		})
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("", nil)
	assert.Error(t, err)
}

func TestOpenSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DataFileName)

	s, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	_, err = s.Increment(ctx, KeyTotalCalculations, 7)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	s, err = OpenSQLite(path, nil)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, KeyTotalCalculations)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestOpenSQLite_LogsToGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := OpenSQLite(filepath.Join(t.TempDir(), DataFileName), log)
	require.NoError(t, err)
	defer s.Close()
	assert.Contains(t, buf.String(), "stats database ready")
}
