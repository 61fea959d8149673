// Package archive streams the entries of a ZIP-format archive (a .jar
// or .pom-adjacent -sources.jar) lazily: entry metadata is read from the
// central directory up front, but entry content is only decompressed
// when OpenEntry (or ReadEntry) is called.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
)

// ErrUnreadable is returned when the archive is missing, truncated, or
// not a valid ZIP file.
var ErrUnreadable = errors.New("archive unreadable")

// Reader exposes the entries of one ZIP archive.
type Reader struct {
	zr *zip.ReadCloser
}

// Open opens path as a ZIP archive. The caller must call Close.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return &Reader{zr: zr}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.zr.Close()
}

// Entries returns the name of every entry in the archive, in central
// directory order. Directory entries (trailing '/') are included.
func (r *Reader) Entries() []string {
	names := make([]string, 0, len(r.zr.File))
	for _, f := range r.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// OpenEntry returns the decompressed content of one named entry. The caller
// must close the returned reader.
func (r *Reader) OpenEntry(name string) (io.ReadCloser, error) {
	for _, f := range r.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: open entry %s: %v", ErrUnreadable, name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: entry %s not found", ErrUnreadable, name)
}

// ReadEntry reads one named entry fully into memory. Entries parsed by
// ClassfileReader and ProtoReader are both small, so this is the normal
// path; callers streaming large resources should use OpenEntry instead.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	rc, err := r.OpenEntry(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read entry %s: %v", ErrUnreadable, name, err)
	}
	return data, nil
}
