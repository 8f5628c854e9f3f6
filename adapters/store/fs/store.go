package storefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/goliatone/go-pdf/pdf"
	"github.com/spf13/afero"
)

const contentTypePDF = "application/pdf"

// Store provides filesystem-backed storage for rendered PDFs.
type Store struct {
	Root string
	FS   afero.Fs
	Now  func() time.Time
}

// NewStore creates a store rooted at root on the OS filesystem.
func NewStore(root string) *Store {
	return &Store{Root: root, FS: afero.NewOsFs(), Now: time.Now}
}

// NewKey returns a unique artifact key for a driver.
func NewKey(driver string) string {
	if driver == "" {
		driver = "default"
	}
	return path.Join("pdf", driver, uuid.NewString()+".pdf")
}

// Put stores an artifact.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, meta pdf.ArtifactMeta) (pdf.ArtifactRef, error) {
	_ = ctx
	if err := s.validate(key); err != nil {
		return pdf.ArtifactRef{}, err
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return pdf.ArtifactRef{}, err
	}

	dir := filepath.Dir(pathOnDisk)
	if err := s.FS.MkdirAll(dir, 0o755); err != nil {
		return pdf.ArtifactRef{}, err
	}

	size, err := s.writeAtomic(dir, ".pdf-*", pathOnDisk, func(w io.Writer) (int64, error) {
		return io.Copy(w, r)
	})
	if err != nil {
		return pdf.ArtifactRef{}, err
	}

	meta.Size = size
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.now()
	}
	if meta.ContentType == "" {
		meta.ContentType = mime.TypeByExtension(filepath.Ext(pathOnDisk))
	}
	if meta.ContentType == "" {
		meta.ContentType = contentTypePDF
	}
	if meta.Filename == "" {
		meta.Filename = filepath.Base(pathOnDisk)
	}

	payload, err := json.Marshal(meta)
	if err != nil {
		return pdf.ArtifactRef{}, err
	}
	if _, err := s.writeAtomic(dir, ".meta-*", metaPath(pathOnDisk), func(w io.Writer) (int64, error) {
		n, err := w.Write(payload)
		return int64(n), err
	}); err != nil {
		return pdf.ArtifactRef{}, err
	}

	return pdf.ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, pdf.ArtifactMeta, error) {
	_ = ctx
	if err := s.validate(key); err != nil {
		return nil, pdf.ArtifactMeta{}, err
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return nil, pdf.ArtifactMeta{}, err
	}

	file, err := s.FS.Open(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pdf.ArtifactMeta{}, pdf.NewError(pdf.KindValidation, fmt.Sprintf("artifact %q not found", key), err)
		}
		return nil, pdf.ArtifactMeta{}, err
	}

	meta := s.readMeta(pathOnDisk)
	if meta.ContentType == "" {
		meta.ContentType = contentTypePDF
	}
	if meta.Size == 0 {
		if info, err := file.Stat(); err == nil {
			meta.Size = info.Size()
			if meta.CreatedAt.IsZero() {
				meta.CreatedAt = info.ModTime()
			}
		}
	}

	return file, meta, nil
}

// Delete removes an artifact and its metadata.
func (s *Store) Delete(ctx context.Context, key string) error {
	_ = ctx
	if err := s.validate(key); err != nil {
		return err
	}

	pathOnDisk, err := s.resolvePath(key)
	if err != nil {
		return err
	}
	for _, name := range []string{pathOnDisk, metaPath(pathOnDisk)} {
		if err := s.FS.Remove(name); err != nil && !os.IsNotExist(err) {
			return pdf.NewError(pdf.KindInternal, fmt.Sprintf("artifact %q could not be deleted", key), err)
		}
	}
	return nil
}

func (s *Store) validate(key string) error {
	if s == nil {
		return pdf.NewError(pdf.KindInternal, "store is nil", nil)
	}
	if s.Root == "" {
		return pdf.NewError(pdf.KindValidation, "store root is required", nil)
	}
	if key == "" {
		return pdf.NewError(pdf.KindValidation, "artifact key is required", nil)
	}
	if s.FS == nil {
		s.FS = afero.NewOsFs()
	}
	return nil
}

func (s *Store) resolvePath(key string) (string, error) {
	rel := path.Clean("/" + key)[1:]
	if rel == "" || rel == "." {
		return "", pdf.NewError(pdf.KindValidation, "invalid artifact key", nil)
	}
	return filepath.Join(s.Root, filepath.FromSlash(rel)), nil
}

func (s *Store) writeAtomic(dir, pattern, target string, write func(io.Writer) (int64, error)) (int64, error) {
	tmp, err := afero.TempFile(s.FS, dir, pattern)
	if err != nil {
		return 0, err
	}
	name := tmp.Name()
	renamed := false
	defer func() {
		_ = tmp.Close()
		if !renamed {
			_ = s.FS.Remove(name)
		}
	}()

	size, err := write(tmp)
	if err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := s.FS.Rename(name, target); err != nil {
		return 0, err
	}
	renamed = true
	return size, nil
}

func (s *Store) readMeta(pathOnDisk string) pdf.ArtifactMeta {
	data, err := afero.ReadFile(s.FS, metaPath(pathOnDisk))
	if err != nil {
		return pdf.ArtifactMeta{}
	}
	var meta pdf.ArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return pdf.ArtifactMeta{}
	}
	return meta
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func metaPath(pathOnDisk string) string {
	return pathOnDisk + ".meta.json"
}
