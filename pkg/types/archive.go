package types

import (
	"path/filepath"
	"strings"
)

// ArchiveKind identifies how a mod file has to be extracted. It is resolved
// once from the file extension and dispatched with a switch.
type ArchiveKind int

const (
	ArchiveUnsupported ArchiveKind = iota
	ArchivePak
	ArchiveZip
	ArchiveSevenZip
	ArchiveRar
)

// System tags derived from a mod's archive and content.
const (
	TagPak        = "pak"
	TagCompressed = "compressed"
	TagUI         = "UI"
	TagMovies     = "Movies"
	TagCharacters = "Characters"
)

// ContentTagFolders are the content subfolders that turn into system tags.
var ContentTagFolders = []string{TagUI, TagMovies, TagCharacters}

var archiveExtensions = map[string]ArchiveKind{
	".pak": ArchivePak,
	".zip": ArchiveZip,
	".7z":  ArchiveSevenZip,
	".rar": ArchiveRar,
}

// KindOf returns the archive kind for a path. Matching is case-insensitive.
func KindOf(path string) ArchiveKind {
	if kind, ok := archiveExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return kind
	}
	return ArchiveUnsupported
}

// IsSupported reports whether path has one of the supported mod extensions.
func IsSupported(path string) bool {
	return KindOf(path) != ArchiveUnsupported
}

// SupportedExtensions returns the supported mod file extensions.
func SupportedExtensions() []string {
	return []string{".pak", ".zip", ".7z", ".rar"}
}

func (k ArchiveKind) String() string {
	switch k {
	case ArchivePak:
		return "pak"
	case ArchiveZip:
		return "zip"
	case ArchiveSevenZip:
		return "7z"
	case ArchiveRar:
		return "rar"
	default:
		return "unsupported"
	}
}

// IsCompressed reports whether the kind is decompressed in-process rather
// than handed to the packer tool.
func (k ArchiveKind) IsCompressed() bool {
	return k == ArchiveZip || k == ArchiveSevenZip || k == ArchiveRar
}

// BaseTag is the system tag every mod of this kind carries.
func (k ArchiveKind) BaseTag() string {
	switch {
	case k == ArchivePak:
		return TagPak
	case k.IsCompressed():
		return TagCompressed
	default:
		return ""
	}
}
