package xlsx

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage is the sink for finished package parts (XML payloads keyed by
// part path). Implementations append parts in the order they arrive.
type Storage interface {
	WriteBlob(path string, blob []byte) error
}

// ZipStorage writes parts into a zip archive, producing a standard
// .xlsx container. The underlying zip writer deflate-compresses each
// part and records its CRC32 and sizes in both the local file header
// and the central directory.
type ZipStorage struct {
	z *zip.Writer
}

// NewZipStorage wraps out in a zip archive writer. In file-backed mode
// out is the destination file; in memory mode a bytes.Buffer.
func NewZipStorage(out io.Writer) *ZipStorage {
	return &ZipStorage{z: zip.NewWriter(out)}
}

// WriteBlob appends one part to the archive.
func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	f, err := zs.z.Create(strings.TrimPrefix(path, "/"))
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

// Close flushes the central directory. Without it the archive is
// truncated and unreadable.
func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}

// DirStorage writes parts as plain files under a directory. Useful for
// inspecting generated XML during debugging.
type DirStorage struct {
	Dir string
}

// NewDirStorage creates a directory-backed storage rooted at dir. The
// directory is created on first write if needed.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir}
}

// WriteBlob writes one part to its path under the root directory,
// creating parent directories as needed.
func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	fn := filepath.Join(ds.Dir, strings.TrimPrefix(path, "/"))
	if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
		return err
	}
	return os.WriteFile(fn, blob, 0666)
}
