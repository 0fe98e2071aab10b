package types

import (
	"path/filepath"
	"sort"
	"strings"
)

// Folder and file names that make up a mods folder layout. They are part of
// the on-disk format and are not configurable.
const (
	// MetadataDirName holds one JSON sidecar per mod
	MetadataDirName = "profiles"

	// ImagesDirName holds mod logo images
	ImagesDirName = "images"

	// MetadataExtension is the sidecar file extension
	MetadataExtension = ".json"
)

// FileInfo holds a mod archive's path and every path derived from it.
type FileInfo struct {
	// Path is the absolute path to the archive
	Path string

	// FileName is the base name including the extension
	FileName string

	// Name is the base name without the extension; it identifies the mod
	Name string

	// Extension is the lower-cased extension including the dot
	Extension string

	// MetadataPath is the sidecar location: <dir>/profiles/<name>.json
	MetadataPath string

	// ImagesDir is <dir>/images
	ImagesDir string

	// StagingPath is <extract root>/<name>, where the mod is extracted
	StagingPath string

	extractRoot string
}

// NewFileInfo derives a FileInfo for the archive at path.
func NewFileInfo(path, extractRoot string) FileInfo {
	dir := filepath.Dir(path)
	fileName := filepath.Base(path)
	ext := filepath.Ext(fileName)
	name := strings.TrimSuffix(fileName, ext)

	return FileInfo{
		Path:         path,
		FileName:     fileName,
		Name:         name,
		Extension:    strings.ToLower(ext),
		MetadataPath: filepath.Join(dir, MetadataDirName, name+MetadataExtension),
		ImagesDir:    filepath.Join(dir, ImagesDirName),
		StagingPath:  filepath.Join(extractRoot, name),
		extractRoot:  extractRoot,
	}
}

// Dir returns the folder the archive lives in.
func (f FileInfo) Dir() string {
	return filepath.Dir(f.Path)
}

// Kind returns the archive kind derived from the extension.
func (f FileInfo) Kind() ArchiveKind {
	return KindOf(f.Path)
}

// ExtractRoot returns the root the staging path was derived from.
func (f FileInfo) ExtractRoot() string {
	return f.extractRoot
}

// Relocate returns the FileInfo the archive would have inside dir.
func (f FileInfo) Relocate(dir string) FileInfo {
	return NewFileInfo(filepath.Join(dir, f.FileName), f.extractRoot)
}

// Metadata is the persisted sidecar record of a mod. Field names are the
// JSON keys of the sidecar format.
type Metadata struct {
	Order      int
	Logo       string
	SystemTags []string
	Tags       []string
	FilePaths  []string
	Name       string
	Enabled    bool
	Unpacked   bool
	Active     bool
	Valid      bool
}

// Mod is one archive file plus its sidecar metadata.
type Mod struct {
	File     FileInfo
	Metadata Metadata
}

// ID returns the mod identity used by profiles: the file name without extension.
func (m *Mod) ID() string {
	return m.File.Name
}

// DisplayName prefers the user-facing metadata name.
func (m *Mod) DisplayName() string {
	if m.Metadata.Name != "" {
		return m.Metadata.Name
	}
	return m.File.Name
}

// HasLogo reports whether a logo image is recorded.
func (m *Mod) HasLogo() bool {
	return m.Metadata.Logo != ""
}

// LogoPath returns the absolute logo path, or "" when no logo is set.
func (m *Mod) LogoPath() string {
	if m.Metadata.Logo == "" {
		return ""
	}
	return filepath.Join(m.File.ImagesDir, m.Metadata.Logo)
}

// HasTag reports whether the mod carries tag as a user or system tag.
func (m *Mod) HasTag(tag string) bool {
	for _, t := range m.Metadata.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	for _, t := range m.Metadata.SystemTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate without touching a cached snapshot.
func (m *Mod) Clone() *Mod {
	c := *m
	c.Metadata.SystemTags = append([]string(nil), m.Metadata.SystemTags...)
	c.Metadata.Tags = append([]string(nil), m.Metadata.Tags...)
	c.Metadata.FilePaths = append([]string(nil), m.Metadata.FilePaths...)
	return &c
}

// SortMods orders mods by Order ascending, ties broken by name ascending.
func SortMods(mods []*Mod) {
	sort.SliceStable(mods, func(i, j int) bool {
		if mods[i].Metadata.Order != mods[j].Metadata.Order {
			return mods[i].Metadata.Order < mods[j].Metadata.Order
		}
		return mods[i].DisplayName() < mods[j].DisplayName()
	})
}

// SeedMetadata derives the metadata of a mod that has no sidecar yet.
func SeedMetadata(file FileInfo, enabled bool) Metadata {
	kind := file.Kind()
	tags := []string{}
	if base := kind.BaseTag(); base != "" {
		tags = append(tags, base)
	}
	return Metadata{
		Name:       file.Name,
		SystemTags: tags,
		Tags:       []string{},
		FilePaths:  []string{},
		Enabled:    enabled,
		Valid:      kind != ArchiveUnsupported,
	}
}
