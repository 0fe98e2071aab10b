// pkg/datastore/store_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS
// PURPOSE: Test sidecar and profile persistence

package datastore_test

import (
	"testing"

	"github.com/arthur-debert/modpatch/pkg/datastore"
	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := datastore.New(fs)
	path := "/mods/enabled/profiles/ui.json"

	_, found, err := store.LoadMetadata(path)
	require.NoError(t, err)
	assert.False(t, found)

	md := types.Metadata{
		Order:      3,
		Name:       "ui",
		SystemTags: []string{"compressed", "UI"},
		Enabled:    true,
		Valid:      true,
	}
	require.NoError(t, store.SaveMetadata(path, md))

	got, found, err := store.LoadMetadata(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got.Order)
	assert.Equal(t, []string{"compressed", "UI"}, got.SystemTags)
	assert.Equal(t, []string{}, got.Tags)
	assert.True(t, got.Enabled)
}

func TestSidecarUsesFieldNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := datastore.New(fs)
	path := "/mods/enabled/profiles/ui.json"

	require.NoError(t, store.SaveMetadata(path, types.Metadata{Name: "ui", Unpacked: true}))

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	for _, key := range []string{`"Order"`, `"Logo"`, `"SystemTags"`, `"Tags"`, `"FilePaths"`, `"Name"`, `"Enabled"`, `"Unpacked"`, `"Active"`, `"Valid"`} {
		assert.Contains(t, string(data), key)
	}
	assert.NotContains(t, string(data), "null")
}

func TestLoadMetadata_Corrupt(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := datastore.New(fs)
	require.NoError(t, afero.WriteFile(fs, "/x.json", []byte("{not json"), 0644))

	_, _, err := store.LoadMetadata("/x.json")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrModMetadata))
}

func TestRemoveMetadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := datastore.New(fs)

	require.NoError(t, store.SaveMetadata("/a.json", types.Metadata{}))
	require.NoError(t, store.RemoveMetadata("/a.json"))
	require.NoError(t, store.RemoveMetadata("/a.json"))

	exists, err := afero.Exists(fs, "/a.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProfiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := datastore.New(fs)

	require.NoError(t, store.SaveProfile("/profiles/b.json", &types.Profile{Name: "B", Selected: []string{"x"}}))
	require.NoError(t, store.SaveProfile("/profiles/a.json", &types.Profile{Name: "A", Active: true}))
	require.NoError(t, afero.WriteFile(fs, "/profiles/notes.txt", []byte("ignored"), 0644))

	profiles, err := store.ListProfiles("/profiles")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "A", profiles[0].Name)
	assert.Equal(t, "a", profiles[0].FileName)
	assert.True(t, profiles[0].Active)
	assert.Equal(t, []string{}, profiles[0].Selected)
	assert.Equal(t, []string{"x"}, profiles[1].Selected)

	data, err := afero.ReadFile(fs, "/profiles/b.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Selected"`)
	assert.NotContains(t, string(data), "FileName")

	require.NoError(t, store.RemoveProfile("/profiles/b.json"))
	_, err = store.LoadProfile("/profiles/b.json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestListProfiles_SkipsCorruptRecords(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := datastore.New(fs)

	require.NoError(t, store.SaveProfile("/profiles/good.json", &types.Profile{Name: "Good", Selected: []string{"x"}}))
	require.NoError(t, afero.WriteFile(fs, "/profiles/broken.json", []byte("{not json"), 0644))

	profiles, err := store.ListProfiles("/profiles")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Good", profiles[0].Name)

	_, err = store.LoadProfile("/profiles/broken.json")
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileInvalid))
}

func TestListProfiles_MissingFolder(t *testing.T) {
	store := datastore.New(afero.NewMemMapFs())
	profiles, err := store.ListProfiles("/nowhere")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
