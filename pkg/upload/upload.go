package upload

import (
	"bufio"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a stored file doesn't exist.
	ErrNotFound = errors.New("upload: file not found")

	// ErrTooLarge is returned when a file exceeds the size limit.
	ErrTooLarge = errors.New("upload: file too large")

	// ErrNoFiles is returned when a request carries no file parts.
	ErrNoFiles = errors.New("upload: no files")

	// ErrTypeNotAllowed is returned when a file's detected type is not allowed.
	ErrTypeNotAllowed = errors.New("upload: file type not allowed")

	// ErrMalformed is returned when the request is not a multipart form.
	ErrMalformed = errors.New("upload: malformed request")
)

// Store is the interface for upload storage backends.
type Store interface {
	// Save stores the contents of r and describes the stored file.
	Save(ctx context.Context, filename, contentType string, r io.Reader) (*File, error)

	// Open returns the contents of a stored file.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Remove deletes a stored file.
	Remove(ctx context.Context, id string) error

	// Cleanup removes files older than maxAge.
	Cleanup(ctx context.Context, maxAge time.Duration) error
}

// File describes a stored upload.
type File struct {
	// ID is the unique identifier for this upload within its store.
	ID string

	// Filename is the original filename from the client.
	Filename string

	// ContentType is the detected MIME type.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	// Path is the local filesystem path (DiskStore).
	Path string

	// URL is the object URL (S3Store), e.g. s3://bucket/key.
	URL string

	CreatedAt time.Time
}

// Location returns Path for local files and URL otherwise.
func (f *File) Location() string {
	if f.Path != "" {
		return f.Path
	}
	return f.URL
}

// Config holds limits for Receive.
type Config struct {
	// MaxSize is the maximum request body size in bytes. Default: 10MB.
	MaxSize int64

	// AllowedTypes lists allowed MIME types. Empty allows all types.
	AllowedTypes []string

	// MaxMemory is the part of the form kept in memory while parsing.
	// Default: 32MB.
	MaxMemory int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSize:   10 << 20,
		MaxMemory: 32 << 20,
	}
}

// Receive parses a multipart upload and saves every file part, whatever its
// field name, into store. Files are returned in field-name order. If any
// file fails, the files already saved are removed.
func Receive(w http.ResponseWriter, r *http.Request, store Store, cfg Config) ([]*File, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultConfig().MaxSize
	}
	if cfg.MaxMemory <= 0 {
		cfg.MaxMemory = DefaultConfig().MaxMemory
	}

	// Limit the body before parsing.
	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxSize)
	if err := r.ParseMultipartForm(cfg.MaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, ErrMalformed
	}
	defer r.MultipartForm.RemoveAll()

	fields := make([]string, 0, len(r.MultipartForm.File))
	for name := range r.MultipartForm.File {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var saved []*File
	fail := func(err error) ([]*File, error) {
		for _, f := range saved {
			_ = store.Remove(r.Context(), f.ID)
		}
		return nil, err
	}

	for _, name := range fields {
		for _, header := range r.MultipartForm.File[name] {
			f, err := savePart(r.Context(), store, header, cfg.AllowedTypes)
			if err != nil {
				return fail(err)
			}
			saved = append(saved, f)
		}
	}
	if len(saved) == 0 {
		return nil, ErrNoFiles
	}
	return saved, nil
}

func savePart(ctx context.Context, store Store, header *multipart.FileHeader, allowed []string) (*File, error) {
	part, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer part.Close()

	br := bufio.NewReaderSize(part, 512)
	sniff, _ := br.Peek(512)
	contentType := http.DetectContentType(sniff)
	if !typeAllowed(contentType, allowed) {
		return nil, ErrTypeNotAllowed
	}
	return store.Save(ctx, header.Filename, contentType, br)
}

func typeAllowed(contentType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	base, _, _ := strings.Cut(contentType, ";")
	base = strings.TrimSpace(base)
	for _, a := range allowed {
		if strings.EqualFold(a, base) {
			return true
		}
	}
	return false
}

// StatusCode maps a Receive error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrTypeNotAllowed):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrNoFiles), errors.Is(err, ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
