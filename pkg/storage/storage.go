package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmptyFile       = errors.New("file is empty")
)

// ImageTypes are the content types accepted for image uploads.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// File is an uploaded file held in memory.
type File struct {
	Name string
	Data []byte
}

// FileStore persists uploads and returns public references to them.
type FileStore interface {
	Save(dir string, file File) (string, error)
	Delete(ref string) error
	Exists(ref string) bool
}

// Store keeps files on an afero filesystem and hands out references of the
// form <urlPrefix>/<dir>/<name>.
type Store struct {
	fs        afero.Fs
	urlPrefix string
	now       func() time.Time
}

func New(fs afero.Fs, urlPrefix string) *Store {
	return &Store{
		fs:        fs,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		now:       time.Now,
	}
}

// NewLocal roots the store at dir on the local disk.
func NewLocal(dir, urlPrefix string) *Store {
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), urlPrefix)
}

// Save writes file under dir with a collision-free name: <unix>_<random>_<base name>.
func (s *Store) Save(dir string, file File) (string, error) {
	if len(file.Data) == 0 {
		return "", ErrEmptyFile
	}

	name, err := s.uniqueName(file.Name)
	if err != nil {
		return "", err
	}

	dir = strings.Trim(dir, "/")
	if err := s.fs.MkdirAll("/"+dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	rel := path.Join(dir, name)
	if err := afero.WriteFile(s.fs, "/"+rel, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}

	return s.urlPrefix + "/" + rel, nil
}

// Delete removes the file behind ref. Missing files are not an error.
func (s *Store) Delete(ref string) error {
	rel, ok := s.relative(ref)
	if !ok {
		return fmt.Errorf("reference %q is outside %s", ref, s.urlPrefix)
	}
	if err := s.fs.Remove(rel); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Exists(ref string) bool {
	rel, ok := s.relative(ref)
	if !ok {
		return false
	}
	exists, err := afero.Exists(s.fs, rel)
	return err == nil && exists
}

// Handler serves stored files; mount it under the url prefix with StripPrefix.
func (s *Store) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir("/"))
}

func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

func (s *Store) relative(ref string) (string, bool) {
	if !strings.HasPrefix(ref, s.urlPrefix+"/") {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(ref, s.urlPrefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return "/" + rel, true
}

func (s *Store) uniqueName(original string) (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}

	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' {
			return '_'
		}
		return r
	}, base)
	if base == "." || base == "" {
		base = "file"
	}

	return fmt.Sprintf("%d_%s_%s", s.now().Unix(), hex.EncodeToString(suffix), base), nil
}

// CheckImage verifies file is a jpeg, png or gif by content and is at most maxBytes.
func CheckImage(file File, maxBytes int64) error {
	if len(file.Data) == 0 {
		return ErrEmptyFile
	}
	if int64(len(file.Data)) > maxBytes {
		return ErrTooLarge
	}
	if !mimetype.EqualsAny(mimetype.Detect(file.Data).String(), ImageTypes...) {
		return ErrUnsupportedType
	}
	return nil
}
