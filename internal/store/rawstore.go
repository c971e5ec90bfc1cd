package store

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// RawStore keeps fetched source documents on disk, gzip-compressed.
// Relative paths get a ".gz" suffix on disk.
type RawStore struct {
	Root string // e.g. "data/raw"
}

func NewRawStore(root string) *RawStore {
	return &RawStore{Root: root}
}

func (s *RawStore) Path(rel string) string {
	p := filepath.Join(s.Root, rel)
	if !strings.HasSuffix(p, ".gz") {
		p += ".gz"
	}
	return p
}

func (s *RawStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

func (s *RawStore) WriteRaw(rel string, body []byte) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	zw := gzip.NewWriter(buf)
	if _, err := zw.Write(body); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	// write-then-rename so concurrent readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *RawStore) ReadRaw(rel string) ([]byte, error) {
	f, err := os.Open(s.Path(rel))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// Clear removes every cached document under Root.
func (s *RawStore) Clear() error {
	if s.Root == "" {
		return nil
	}
	if _, err := os.Stat(s.Root); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return os.RemoveAll(s.Root)
}
