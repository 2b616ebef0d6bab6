package catalog

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// ArchiveOptions limits ZIP expansion
type ArchiveOptions struct {
	MaxFileSize  int64 // Per entry, 0 = unlimited
	MaxTotalSize int64 // All entries, 0 = unlimited
	MaxFiles     int   // 0 = unlimited
}

// DefaultArchiveOptions returns the default expansion limits
func DefaultArchiveOptions() ArchiveOptions {
	return ArchiveOptions{
		MaxFileSize:  100 * 1024 * 1024,
		MaxTotalSize: 512 * 1024 * 1024,
		MaxFiles:     1000,
	}
}

// ArchiveEntry is one catalog file extracted from an archive
type ArchiveEntry struct {
	Name    string
	Format  Format
	Content []byte
}

var archiveSkipPatterns = []string{"__MACOSX", ".DS_Store", "Thumbs.db", "desktop.ini"}

// ExpandArchive extracts the catalog files of a ZIP archive in archive
// order. Directories, system files, unsafe paths, nested archives and
// unsupported formats are skipped.
func ExpandArchive(content []byte, opts ArchiveOptions) ([]ArchiveEntry, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP: %w", err)
	}

	var (
		entries   []ArchiveEntry
		totalSize int64
	)
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		if skipArchiveEntry(file.Name) {
			continue
		}
		name, err := sanitizeEntryName(file.Name)
		if err != nil {
			continue
		}
		format, err := DetectFormat(name)
		if err != nil || format == FormatZIP {
			continue
		}

		if opts.MaxFiles > 0 && len(entries) >= opts.MaxFiles {
			return nil, fmt.Errorf("too many files in archive (limit: %d)", opts.MaxFiles)
		}
		if opts.MaxFileSize > 0 && int64(file.UncompressedSize64) > opts.MaxFileSize {
			return nil, fmt.Errorf("file %s exceeds maximum size (%d > %d)", name, file.UncompressedSize64, opts.MaxFileSize)
		}

		data, err := readEntry(file, name, opts.MaxFileSize)
		if err != nil {
			return nil, err
		}

		totalSize += int64(len(data))
		if opts.MaxTotalSize > 0 && totalSize > opts.MaxTotalSize {
			return nil, fmt.Errorf("total extracted size exceeds maximum (%d > %d)", totalSize, opts.MaxTotalSize)
		}

		entries = append(entries, ArchiveEntry{Name: name, Format: format, Content: data})
	}

	return entries, nil
}

// readEntry enforces the size limit on the bytes actually read, not only on
// the declared size.
func readEntry(file *zip.File, name string, limit int64) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in ZIP: %w", name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from ZIP: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("file %s exceeds maximum size (actual data > %d bytes)", name, limit)
	}
	return data, nil
}

func skipArchiveEntry(name string) bool {
	for _, pattern := range archiveSkipPatterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}

// sanitizeEntryName rejects absolute and escaping paths and flattens the
// rest to a base name.
func sanitizeEntryName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if path.IsAbs(name) || (len(name) >= 2 && name[1] == ':') {
		return "", fmt.Errorf("absolute path not allowed: %s", name)
	}

	cleaned := path.Clean(name)
	for _, part := range strings.Split(cleaned, "/") {
		if part == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", name)
		}
	}

	base := path.Base(cleaned)
	if base == "." || base == "/" || base == "" || strings.HasPrefix(base, ".") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	return base, nil
}
