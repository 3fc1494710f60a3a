package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmptyFile is returned when a caller tries to store a zero-byte file.
	ErrEmptyFile = errors.New("cannot store empty file")
	// ErrInvalidFileName is returned when the declared file name is absent
	// or contains a path traversal sequence.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrNotFound is returned when the requested photo does not exist.
	ErrNotFound = errors.New("photo not found")
)

// StorageError wraps an underlying filesystem failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("photo storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// Photo is an opened stored photo ready for serving. The caller owns
// Content and must close it.
type Photo struct {
	Content     io.ReadCloser
	ContentType string
	Name        string
	Size        int64
}

// PhotoStore persists photos as flat files under a single root directory.
// Stored files are named <random-token><extension>, so nothing derived
// from user input ever influences the target path beyond the extension.
// The store holds no state besides the root and is safe for concurrent use.
type PhotoStore struct {
	root string
}

// NewPhotoStore resolves root to an absolute path and creates the
// directory if it does not exist.
func NewPhotoStore(root string) (*PhotoStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &StorageError{Op: "init", Err: err}
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, &StorageError{Op: "init", Err: err}
	}
	return &PhotoStore{root: abs}, nil
}

// Root returns the absolute storage directory.
func (s *PhotoStore) Root() string { return s.root }

// Store writes content to a freshly named file under the root and returns
// the generated file name. size is the caller-declared content length;
// emptiness is decided from it up front rather than by reading the stream.
// originalFilename contributes nothing but its extension; the `..` check
// on it is defense in depth, not the primary traversal guard.
//
// A name collision silently overwrites, which is acceptable at 122 bits
// of randomness per name.
func (s *PhotoStore) Store(content io.Reader, size int64, originalFilename string) (string, error) {
	if size == 0 {
		return "", ErrEmptyFile
	}
	if originalFilename == "" || strings.Contains(originalFilename, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, originalFilename)
	}

	fileName := uuid.New().String() + fileExtension(originalFilename)
	target := filepath.Join(s.root, fileName)

	f, err := os.Create(target)
	if err != nil {
		return "", &StorageError{Op: "store", Err: err}
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", &StorageError{Op: "store", Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", &StorageError{Op: "store", Err: err}
	}
	return fileName, nil
}

// Load opens the photo with the given file name. The name may come from
// less trusted storage than Store's fresh generation, so the resolved
// path is verified to still sit inside the root before the file is
// touched.
//
// A Load racing a Delete follows POSIX open-then-unlink semantics: an
// already-opened photo keeps streaming, a not-yet-opened one reports
// ErrNotFound.
func (s *PhotoStore) Load(fileName string) (*Photo, error) {
	path, err := s.resolve(fileName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, fileName)
		}
		return nil, &StorageError{Op: "load", Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &StorageError{Op: "load", Err: err}
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileName)
	}

	name := filepath.Base(path)
	return &Photo{
		Content:     f,
		ContentType: ContentType(name),
		Name:        name,
		Size:        info.Size(),
	}, nil
}

// Delete removes the photo with the given file name. Deleting an empty
// name or an already-absent file is a successful no-op.
func (s *PhotoStore) Delete(fileName string) error {
	if fileName == "" {
		return nil
	}
	path, err := s.resolve(fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "delete", Err: err}
	}
	return nil
}

// resolve joins fileName onto the root and rejects any name whose
// cleaned path escapes the storage directory.
func (s *PhotoStore) resolve(fileName string) (string, error) {
	path := filepath.Join(s.root, fileName)
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	return path, nil
}

// ContentType infers a serving content type from a stored file name.
// It is a coarse case-insensitive suffix match that trusts the stored
// extension; anything unrecognized falls back to JPEG.
func ContentType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// fileExtension returns the lowercase suffix from the last dot of name
// (dot included), or the empty string when name has no dot.
func fileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i == -1 {
		return ""
	}
	return strings.ToLower(name[i:])
}
