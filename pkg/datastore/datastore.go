package datastore

import "github.com/arthur-debert/modpatch/pkg/types"

// DataStore manages modpatch's persisted records on the filesystem.
type DataStore interface {
	// LoadMetadata reads the sidecar at path. found is false when no
	// sidecar exists yet.
	LoadMetadata(path string) (md types.Metadata, found bool, err error)

	// SaveMetadata replaces the sidecar at path.
	SaveMetadata(path string, md types.Metadata) error

	// RemoveMetadata deletes the sidecar at path. A missing sidecar is not an error.
	RemoveMetadata(path string) error

	// ListProfiles reads every profile record in dir, sorted by file name.
	// Records that cannot be parsed are logged and skipped.
	ListProfiles(dir string) ([]*types.Profile, error)

	// LoadProfile reads the profile record at path.
	LoadProfile(path string) (*types.Profile, error)

	// SaveProfile replaces the profile record at path.
	SaveProfile(path string, p *types.Profile) error

	// RemoveProfile deletes the profile record at path.
	RemoveProfile(path string) error
}
