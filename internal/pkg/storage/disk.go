package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	partSuffix = ".part"
	// maxNameLen leaves room for the timestamp prefix within the usual
	// 255 byte file name limit.
	maxNameLen = 200
)

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrTooLarge    = errors.New("file exceeds size limit")
	ErrExists      = errors.New("file already exists")
)

// Storage хранит содержимое файлов под серверными именами.
type Storage interface {
	Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error)
	Open(name string) (*os.File, os.FileInfo, error)
	Remove(name string) error
	List() ([]string, error)
	Partials() ([]string, error)
}

// DiskStorage is a flat directory of uploaded files.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStorage{dir: abs}, nil
}

func (s *DiskStorage) Dir() string {
	return s.dir
}

func (s *DiskStorage) path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Save пишет r во временный файл и переименовывает его в name.
// limit <= 0 отключает ограничение размера.
func (s *DiskStorage) Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error) {
	dst, err := s.path(name)
	if err != nil {
		return 0, err
	}
	if _, err := os.Lstat(dst); err == nil {
		return 0, ErrExists
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*"+partSuffix)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: src})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if limit > 0 && n > limit {
		return 0, ErrTooLarge
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("rename %s: %w", name, err)
	}
	return n, nil
}

func (s *DiskStorage) Open(name string) (*os.File, os.FileInfo, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return f, info, nil
}

// Remove returns an error wrapping os.ErrNotExist when the file is already gone.
func (s *DiskStorage) Remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// List returns the names of all complete files in the directory.
func (s *DiskStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasSuffix(e.Name(), partSuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Partials returns temp files of uploads that never finished.
func (s *DiskStorage) Partials() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), partSuffix) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ValidName reports whether name is a single path element usable inside the
// upload directory.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// CleanName reduces a client supplied file name to its base element.
func CleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(name, "\x00", "")
	name = strings.TrimSpace(path.Base("/" + name))
	if name == "/" || name == "." || name == ".." || name == "" {
		return "file"
	}
	return truncateName(name, maxNameLen)
}

// truncateName shortens name to at most max bytes on a rune boundary,
// keeping a short extension.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	ext := path.Ext(name)
	if len(ext) > 16 {
		ext = ""
	}
	base := strings.TrimSuffix(name, ext)
	limit := max - len(ext)
	cut := 0
	for i := range base {
		if i > limit {
			break
		}
		cut = i
	}
	if len(base) <= limit {
		cut = len(base)
	}
	return base[:cut] + ext
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
