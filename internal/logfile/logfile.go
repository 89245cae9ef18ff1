package logfile

import (
	"archive/zip"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size limits for the viewer. Files above MaxFileSize are refused outright;
// files above WarnFileSize are flagged so the UI can warn before opening.
const (
	MaxFileSize  = 100 * 1024 * 1024
	WarnFileSize = 10 * 1024 * 1024

	detectionSampleSize = 4096
)

var logExtensions = map[string]struct{}{
	".log": {}, ".txt": {}, ".out": {}, ".err": {}, ".trace": {},
	".csv": {}, ".json": {},
	".gz": {}, ".bz2": {}, ".zip": {},
}

var compressedExtensions = map[string]struct{}{
	".gz": {}, ".bz2": {}, ".zip": {},
}

// IsLogFile reports whether the path has a log-like extension.
func IsLogFile(path string) bool {
	_, ok := logExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsCompressed reports whether the path has a compressed extension.
func IsCompressed(path string) bool {
	_, ok := compressedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Info describes a file the viewer may open.
type Info struct {
	Path       string
	Size       int64
	ModTime    time.Time
	Compressed bool
	Binary     bool
	TooLarge   bool
	Large      bool
}

// HumanSize returns the size formatted for display, e.g. "1.2 MB".
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Stat gathers metadata for a file, including a binary-content heuristic
// based on a sample of the first few KB.
func Stat(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat file: %w", err)
	}
	if st.IsDir() {
		return Info{}, fmt.Errorf("not a file: %s", path)
	}

	info := Info{
		Path:       path,
		Size:       st.Size(),
		ModTime:    st.ModTime(),
		Compressed: IsCompressed(path),
		TooLarge:   st.Size() > MaxFileSize,
		Large:      st.Size() > WarnFileSize,
	}

	// Compressed files are opened through their decoders; the raw sample
	// would always look binary.
	if !info.Compressed {
		sample, err := readSample(path)
		if err != nil {
			return Info{}, err
		}
		info.Binary = isBinarySample(sample)
	}
	return info, nil
}

// ReadAll returns the full text content of a log file, transparently
// decompressing .gz, .bz2 and .zip files. Binary and oversized files are
// refused.
func ReadAll(path string) (string, error) {
	info, err := Stat(path)
	if err != nil {
		return "", err
	}
	if info.TooLarge {
		return "", fmt.Errorf("file too large (%s)", info.HumanSize())
	}
	if info.Binary {
		return "", fmt.Errorf("binary file: %s", path)
	}

	if info.Compressed {
		return readCompressed(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return sanitize(raw), nil
}

// Preview returns up to maxLines lines from the start of the file, truncated
// to maxChars.
func Preview(path string, maxLines, maxChars int) (string, error) {
	content, err := ReadAll(path)
	if err != nil {
		return "", err
	}
	lines := strings.Split(content, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	preview := strings.Join(lines, "\n")
	if maxChars > 0 && len(preview) > maxChars {
		preview = preview[:maxChars] + "..."
	}
	return preview, nil
}

func readCompressed(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gz":
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open archive: %w", err)
		}
		defer func() { _ = file.Close() }()
		gz, err := gzip.NewReader(file)
		if err != nil {
			return "", fmt.Errorf("open gzip: %w", err)
		}
		defer func() { _ = gz.Close() }()
		return readLimited(gz)
	case ".bz2":
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open archive: %w", err)
		}
		defer func() { _ = file.Close() }()
		return readLimited(bzip2.NewReader(file))
	case ".zip":
		zr, err := zip.OpenReader(path)
		if err != nil {
			return "", fmt.Errorf("open zip: %w", err)
		}
		defer func() { _ = zr.Close() }()
		for _, member := range zr.File {
			if member.FileInfo().IsDir() || !IsLogFile(member.Name) {
				continue
			}
			rc, err := member.Open()
			if err != nil {
				return "", fmt.Errorf("open zip member: %w", err)
			}
			content, err := readLimited(rc)
			_ = rc.Close()
			return content, err
		}
		return "", fmt.Errorf("no log files in zip: %s", path)
	}
	return "", fmt.Errorf("unsupported compression: %s", ext)
}

func readLimited(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}
	if len(raw) > MaxFileSize {
		return "", fmt.Errorf("decompressed content too large (> %s)", humanize.Bytes(MaxFileSize))
	}
	return sanitize(raw), nil
}

// sanitize replaces NUL bytes so partially-written or sparse log files still
// render as text.
func sanitize(raw []byte) string {
	if bytes.IndexByte(raw, 0) >= 0 {
		raw = bytes.ReplaceAll(raw, []byte{0}, []byte("�"))
	}
	return string(raw)
}

func readSample(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	sample := make([]byte, detectionSampleSize)
	n, err := file.Read(sample)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sample file: %w", err)
	}
	return sample[:n], nil
}

// isBinarySample applies the printable-ratio heuristic: heavy NUL content or
// fewer than 65% printable bytes marks the file binary.
func isBinarySample(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if bytes.Count(sample, []byte{0}) > len(sample)/4 {
		return true
	}
	printable := 0
	for _, b := range sample {
		if (b >= 32 && b <= 126) || b == '\t' || b == '\n' || b == '\r' || b >= 128 {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) < 0.65
}
