package extract

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modpatch/pkg/errors"
	"github.com/arthur-debert/modpatch/pkg/filesystem"
	"github.com/arthur-debert/modpatch/pkg/logging"
	"github.com/arthur-debert/modpatch/pkg/packer"
	"github.com/arthur-debert/modpatch/pkg/types"
	"github.com/mholt/archives"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Result describes a successful extraction.
type Result struct {
	// StagingDir is <extract root>/<name>
	StagingDir string

	// FilePaths lists every file in StagingDir, slash-separated and sorted
	FilePaths []string

	// SystemTags is the archive's base tag plus a tag per content folder found
	SystemTags []string
}

// Extractor extracts mod archives into their staging directories.
type Extractor struct {
	fs             afero.Fs
	tool           packer.Packer
	contentSubpath string
	logger         zerolog.Logger
}

// New creates an Extractor. tool is used for paks, both top-level and
// nested in compressed archives.
func New(fs afero.Fs, tool packer.Packer, contentSubpath string) *Extractor {
	return &Extractor{
		fs:             fs,
		tool:           tool,
		contentSubpath: filepath.FromSlash(contentSubpath),
		logger:         logging.GetLogger("extract"),
	}
}

// Extract extracts mod into mod.File.StagingPath, replacing whatever was
// there. On failure the staging directory is removed.
func (e *Extractor) Extract(ctx context.Context, mod *types.Mod) (*Result, error) {
	file := mod.File
	kind := file.Kind()
	if kind == types.ArchiveUnsupported {
		return nil, errors.Newf(errors.ErrExtractUnsupported, "unsupported mod file %s", file.FileName).
			WithDetail("extension", file.Extension)
	}

	logger := e.logger.With().Str("mod", file.Name).Str("kind", kind.String()).Logger()
	logger.Debug().Str("staging", file.StagingPath).Msg("Extracting mod")

	if err := e.fs.RemoveAll(file.StagingPath); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to clear staging for %s", file.Name)
	}

	var err error
	switch kind {
	case types.ArchivePak:
		err = e.extractPak(ctx, file)
	case types.ArchiveZip, types.ArchiveSevenZip, types.ArchiveRar:
		err = e.extractCompressed(ctx, file, kind)
	}
	if err != nil {
		_ = e.fs.RemoveAll(file.StagingPath)
		logger.Warn().Err(err).Msg("Extraction failed")
		return nil, err
	}

	result, err := e.describe(file.StagingPath, kind)
	if err != nil {
		_ = e.fs.RemoveAll(file.StagingPath)
		return nil, err
	}
	logger.Debug().Int("files", len(result.FilePaths)).Strs("tags", result.SystemTags).Msg("Extracted mod")
	return result, nil
}

// hasContent reports whether dir holds the content subpath.
func (e *Extractor) hasContent(dir string) bool {
	return filesystem.IsDir(e.fs, filepath.Join(dir, e.contentSubpath))
}

// extractPak hands a copy of the pak to the tool so that its output lands
// at <extract root>/<name>.
func (e *Extractor) extractPak(ctx context.Context, file types.FileInfo) error {
	if err := e.fs.MkdirAll(file.ExtractRoot(), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", file.ExtractRoot())
	}
	working := file.StagingPath + packer.PakExtension
	if err := filesystem.CopyFile(e.fs, file.Path, working); err != nil {
		return err
	}
	defer func() { _ = e.fs.Remove(working) }()

	out, ok := e.tool.Unpack(ctx, working)
	if !ok {
		return errors.Newf(errors.ErrPackerFailed, "packer tool could not unpack %s", file.FileName)
	}
	if filepath.Clean(out) != filepath.Clean(file.StagingPath) {
		return errors.Newf(errors.ErrPackerFailed, "packer tool wrote %s, expected %s", out, file.StagingPath)
	}
	return nil
}

func (e *Extractor) extractCompressed(ctx context.Context, file types.FileInfo, kind types.ArchiveKind) error {
	if err := e.decompress(ctx, file, kind); err != nil {
		return err
	}
	if e.hasContent(file.StagingPath) {
		return nil
	}

	paks, err := e.findPaks(file.StagingPath)
	if err != nil {
		return err
	}
	for _, pak := range paks {
		out, ok := e.tool.Unpack(ctx, pak)
		if ok {
			if _, err := filesystem.Merge(e.fs, out, file.StagingPath, true); err != nil {
				e.logger.Debug().Err(err).Str("pak", pak).Msg("Failed to merge nested pak")
			}
		} else {
			e.logger.Debug().Str("pak", pak).Msg("Nested pak could not be unpacked")
		}
		_ = e.fs.RemoveAll(out)
		_ = e.fs.Remove(pak)
	}

	if !e.hasContent(file.StagingPath) {
		return errors.Newf(errors.ErrExtractNoContent, "%s holds neither %s nor an unpackable pak",
			file.FileName, filepath.ToSlash(e.contentSubpath)).WithDetail("paks", len(paks))
	}
	return nil
}

func (e *Extractor) decompress(ctx context.Context, file types.FileInfo, kind types.ArchiveKind) error {
	var format archives.Extractor
	switch kind {
	case types.ArchiveZip:
		format = archives.Zip{}
	case types.ArchiveSevenZip:
		format = archives.SevenZip{}
	case types.ArchiveRar:
		format = archives.Rar{}
	default:
		return errors.Newf(errors.ErrExtractUnsupported, "%s is not a compressed archive", file.FileName)
	}

	archive, err := e.fs.Open(file.Path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", file.Path)
	}
	defer func() { _ = archive.Close() }()

	if err := e.fs.MkdirAll(file.StagingPath, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", file.StagingPath)
	}

	handler := func(ctx context.Context, f archives.FileInfo) error {
		return e.writeEntry(file.StagingPath, f)
	}
	if err := format.Extract(ctx, archive, handler); err != nil {
		return errors.Wrapf(err, errors.ErrExtractArchive, "failed to decompress %s", file.FileName)
	}
	return nil
}

// writeEntry writes one archive entry below root. Entries escaping root and
// symlinks are skipped.
func (e *Extractor) writeEntry(root string, f archives.FileInfo) error {
	target := filepath.Clean(filepath.Join(root, filepath.FromSlash(f.NameInArchive)))
	prefix := filepath.Clean(root) + string(os.PathSeparator)
	if !strings.HasPrefix(target+string(os.PathSeparator), prefix) {
		e.logger.Warn().Str("entry", f.NameInArchive).Msg("Skipping entry outside the archive root")
		return nil
	}

	if f.IsDir() {
		return e.fs.MkdirAll(target, 0755)
	}
	if f.Mode()&os.ModeSymlink != 0 {
		e.logger.Debug().Str("entry", f.NameInArchive).Msg("Skipping symlink")
		return nil
	}

	if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	reader, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	writer, err := e.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(writer, reader); err != nil {
		_ = writer.Close()
		_ = e.fs.Remove(target)
		return err
	}
	return writer.Close()
}

func (e *Extractor) findPaks(root string) ([]string, error) {
	var paks []string
	err := afero.Walk(e.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && types.KindOf(path) == types.ArchivePak {
			paks = append(paks, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to scan %s for paks", root)
	}
	return paks, nil
}

func (e *Extractor) describe(staging string, kind types.ArchiveKind) (*Result, error) {
	files, err := filesystem.ListFiles(e.fs, staging)
	if err != nil {
		return nil, err
	}

	tags := []string{}
	if base := kind.BaseTag(); base != "" {
		tags = append(tags, base)
	}
	content := filepath.Join(staging, e.contentSubpath)
	for _, folder := range types.ContentTagFolders {
		if filesystem.IsDir(e.fs, filepath.Join(content, folder)) {
			tags = append(tags, folder)
		}
	}

	return &Result{StagingDir: staging, FilePaths: files, SystemTags: tags}, nil
}
