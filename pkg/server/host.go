package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/mirror/pkg/live"
	"github.com/vango-dev/mirror/pkg/upload"
)

// Host is the process-wide table of shared files and upload endpoints that
// sessions register on flush. Entries are never removed while the server
// runs.
type Host struct {
	mu      sync.RWMutex
	files   map[string]string
	uploads map[string]func([]live.UploadedFile)

	opts    UploadOptions
	metrics *Metrics
	logger  *slog.Logger
}

var _ live.Host = (*Host)(nil)

// NewHost creates an empty table. A nil metrics records nothing.
func NewHost(opts UploadOptions, metrics *Metrics, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		files:   make(map[string]string),
		uploads: make(map[string]func([]live.UploadedFile)),
		opts:    opts,
		metrics: metrics,
		logger:  logger,
	}
}

// ShareFile implements live.Host.
func (h *Host) ShareFile(url, path string) {
	h.mu.Lock()
	h.files[url] = path
	h.mu.Unlock()
	h.logger.Debug("file shared", "url", url, "path", path)
}

// AcceptUploads implements live.Host.
func (h *Host) AcceptUploads(url string, callback func(files []live.UploadedFile)) {
	if h.opts.Store == nil {
		h.logger.Warn("upload gate registered without a store", "url", url, "error", ErrUploadsDisabled)
	}
	h.mu.Lock()
	h.uploads[url] = callback
	h.mu.Unlock()
}

// File returns the path shared at url.
func (h *Host) File(url string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	path, ok := h.files[url]
	return path, ok
}

func (h *Host) upload(url string) (func([]live.UploadedFile), bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cb, ok := h.uploads[url]
	return cb, ok
}

// serveFile handles GET /tmp/{id}.
func (h *Host) serveFile(w http.ResponseWriter, r *http.Request) {
	path, ok := h.File("/tmp/" + chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

// receiveUpload handles POST /upload/{token}: it stores every file part
// and hands the stored files to the gate's callback.
func (h *Host) receiveUpload(w http.ResponseWriter, r *http.Request) {
	url := "/upload/" + chi.URLParam(r, "token")
	callback, ok := h.upload(url)
	if !ok {
		h.logger.Warn("upload rejected", "url", url, "error", ErrUnknownUpload)
		http.NotFound(w, r)
		return
	}
	if h.opts.Store == nil {
		http.Error(w, ErrUploadsDisabled.Error(), http.StatusServiceUnavailable)
		return
	}

	stored, err := upload.Receive(w, r, h.opts.Store, upload.Config{
		MaxSize:      h.opts.MaxSize,
		AllowedTypes: h.opts.AllowedTypes,
	})
	if err != nil {
		h.metrics.uploadFailed()
		h.logger.Warn("upload failed", "url", url, "error", err)
		http.Error(w, err.Error(), upload.StatusCode(err))
		return
	}

	files := make([]live.UploadedFile, len(stored))
	var total int64
	for i, f := range stored {
		files[i] = live.UploadedFile{
			Name:     f.Filename,
			TempPath: f.Location(),
			Size:     f.Size,
		}
		total += f.Size
	}
	h.metrics.uploaded(total)
	h.logger.Info("upload received", "url", url, "files", len(files), "bytes", total)

	callback(files)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(files)
}
