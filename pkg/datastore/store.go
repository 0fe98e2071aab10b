package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type jsonStore struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// New creates a DataStore that keeps records as indented JSON files on fs.
func New(fs afero.Fs) DataStore {
	return &jsonStore{fs: fs, logger: logging.GetLogger("datastore")}
}

func (s *jsonStore) LoadMetadata(path string) (types.Metadata, bool, error) {
	var md types.Metadata
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return md, false, nil
		}
		return md, false, errors.Wrapf(err, errors.ErrModMetadata, "failed to read sidecar %s", path)
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, false, errors.Wrapf(err, errors.ErrModMetadata, "failed to parse sidecar %s", path)
	}
	normalize(&md)
	return md, true, nil
}

func (s *jsonStore) SaveMetadata(path string, md types.Metadata) error {
	normalize(&md)
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrModMetadata, "failed to encode sidecar %s", path)
	}
	if err := filesystem.AtomicWrite(s.fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrModMetadata, "failed to save sidecar %s", path)
	}
	return nil
}

func (s *jsonStore) RemoveMetadata(path string) error {
	return s.remove(path)
}

func (s *jsonStore) ListProfiles(dir string) ([]*types.Profile, error) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*types.Profile{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read profiles folder %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), types.MetadataExtension) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	profiles := make([]*types.Profile, 0, len(names))
	for _, name := range names {
		p, err := s.LoadProfile(filepath.Join(dir, name))
		if errors.IsErrorCode(err, errors.ErrProfileInvalid) {
			s.logger.Warn().Err(err).Str("file", name).Msg("Skipping unreadable profile")
			continue
		}
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *jsonStore) LoadProfile(path string) (*types.Profile, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrProfileNotFound, "profile %s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read profile %s", path)
	}
	p := &types.Profile{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileInvalid, "failed to parse profile %s", path)
	}
	if p.Selected == nil {
		p.Selected = []string{}
	}
	p.FileName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p, nil
}

func (s *jsonStore) SaveProfile(path string, p *types.Profile) error {
	if p.Selected == nil {
		p.Selected = []string{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrapf(err, errors.ErrProfileInvalid, "failed to encode profile %s", p.Name)
	}
	return filesystem.AtomicWrite(s.fs, path, data, 0644)
}

func (s *jsonStore) RemoveProfile(path string) error {
	return s.remove(path)
}

func (s *jsonStore) remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to remove %s", path)
	}
	return nil
}

// normalize keeps list fields as [] rather than null in the sidecar.
func normalize(md *types.Metadata) {
	if md.SystemTags == nil {
		md.SystemTags = []string{}
	}
	if md.Tags == nil {
		md.Tags = []string{}
	}
	if md.FilePaths == nil {
		md.FilePaths = []string{}
	}
}
