// Package h5 provides the HDF5 access layer: group/dataset traversal, attribute
// and compound-record reads, behind a single Reader interface with a local
// (in-memory/file) backend and a remote range-fetching backend.
package h5

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scigolib/slp/internal/h5/core"
	"github.com/scigolib/slp/internal/h5/utils"
)

// File represents an open HDF5 container and its root group. The backing
// storage may be an os.File, a bytes.Reader over an in-memory buffer, or any
// other io.ReaderAt (e.g. a ranged HTTP transport).
type File struct {
	r      io.ReaderAt
	closer io.Closer
	sb     *core.Superblock
	root   *Group
}

// Open opens an HDF5 file on the local filesystem and returns a File handle.
func Open(filename string) (*File, error) {
	//nolint:gosec // G304: user-provided filename is intentional for a file-format library
	f, err := os.Open(filename)
	if err != nil {
		return nil, utils.WrapError("file open failed", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, utils.WrapError("file stat failed", err)
	}

	file, err := openReaderAt(f, f, fi.Size())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return file, nil
}

// OpenBuffer opens an HDF5 container held entirely in memory.
func OpenBuffer(data []byte) (*File, error) {
	return openReaderAt(bytes.NewReader(data), nil, int64(len(data)))
}

// OpenReaderAt opens an HDF5 container backed by an arbitrary io.ReaderAt, such
// as a ranged HTTP transport. size is the logical length of the container and
// is used only to validate addresses; pass -1 if unknown. closer, if non-nil,
// is invoked by (*File).Close.
func OpenReaderAt(r io.ReaderAt, closer io.Closer, size int64) (*File, error) {
	return openReaderAt(r, closer, size)
}

func openReaderAt(r io.ReaderAt, closer io.Closer, size int64) (*File, error) {
	if !isHDF5File(r) {
		return nil, errors.New("not an HDF5 file")
	}

	sb, err := core.ReadSuperblock(r)
	if err != nil {
		return nil, utils.WrapError("superblock read failed", err)
	}

	file := &File{
		r:      r,
		closer: closer,
		sb:     sb,
	}

	//nolint:gosec // G115: size is always positive when known
	if size >= 0 && sb.RootGroup >= uint64(size) {
		return nil, fmt.Errorf("root group address %d beyond container size %d", sb.RootGroup, size)
	}

	file.root, err = loadGroup(file, sb.RootGroup)
	if err != nil {
		return nil, utils.WrapError("root group load failed", err)
	}
	file.root.name = "/"

	return file, nil
}

// isHDF5File verifies the HDF5 signature at offset 0.
func isHDF5File(r io.ReaderAt) bool {
	buf := utils.GetBuffer(8)
	defer utils.ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, 0); err != nil {
		return false
	}
	return string(buf) == core.Signature
}

// Close releases any resources backing the file. Safe to call multiple times.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

// Root returns the root group of the HDF5 file.
func (f *File) Root() *Group {
	return f.root
}

// Walk traverses the entire file structure, calling fn for each object in
// depth-first order starting from the root group.
func (f *File) Walk(fn func(path string, obj Object)) {
	walkGroup(f.root, "/", fn)
}

func walkGroup(g *Group, currentPath string, fn func(string, Object)) {
	fn(currentPath, g)

	for _, child := range g.Children() {
		childPath := currentPath + child.Name()

		if childGroup, ok := child.(*Group); ok {
			walkGroup(childGroup, childPath+"/", fn)
		} else {
			fn(childPath, child)
		}
	}
}

// SuperblockVersion returns the HDF5 superblock format version (0, 2, 3, or 4).
func (f *File) SuperblockVersion() uint8 {
	return f.sb.Version
}

// Superblock returns the file's superblock metadata structure.
func (f *File) Superblock() *core.Superblock {
	return f.sb
}

// Reader returns the underlying container reader for low-level access.
func (f *File) Reader() io.ReaderAt {
	return f.r
}

// readSignature reads 4 bytes at address and returns them as a string.
func readSignature(r io.ReaderAt, address uint64) string {
	buf := make([]byte, 4)
	//nolint:gosec // G115: HDF5 addresses fit in int64 for io.ReaderAt interface
	if _, err := r.ReadAt(buf, int64(address)); err != nil {
		return ""
	}
	return string(buf)
}
