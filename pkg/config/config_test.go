package config

import (
	"os"
	"path/filepath"
	"testing"

	"flyerhunt/pkg/models"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	prefs := store.Load()
	require.Equal(t, DefaultZip, prefs.DefaultZip)
	require.Equal(t, DefaultStores(), prefs.DefaultStores)

	// The defaults were written out for the next invocation.
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestLoadReplacesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{{{ not json`), 0o644))

	prefs := NewStore(path).Load()
	require.Equal(t, DefaultZip, prefs.DefaultZip)

	// Corrupt content was replaced, not kept.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), DefaultZip)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path)

	want := models.Preferences{
		DefaultZip:    "80331",
		DefaultStores: []string{"REWE", "Lidl"},
	}
	require.NoError(t, store.Save(want))
	require.Equal(t, want, store.Load())
}

func TestLoadAcceptsHandEditedJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		// hand-edited
		defaultZip: "50667",
		defaultStores: ["REWE",],
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	prefs := NewStore(path).Load()
	require.Equal(t, "50667", prefs.DefaultZip)
	require.Equal(t, []string{"REWE"}, prefs.DefaultStores)
}

func TestParseList(t *testing.T) {
	require.Nil(t, ParseList(""))
	require.Nil(t, ParseList("  ,  , "))
	require.Equal(t, []string{"a", "b"}, ParseList(" a , ,b "))
	require.Equal(t, []string{"ALDI SÜD"}, ParseList("ALDI SÜD"))
}
