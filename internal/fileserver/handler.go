// Package fileserver serves a single directory tree over HTTP: regular files
// are sent whole with a Content-Type taken from their extension, directories
// get a generated HTML index, and every request path is confined to the
// served root before the filesystem is touched.
package fileserver

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
)

// Handler is the http.Handler for the served root. It is safe for concurrent
// use; it holds no per-request state.
//
// Mount it directly on the http.Server rather than behind an http.ServeMux:
// the mux cleans and redirects paths containing "..", which would hide
// traversal attempts from the guard.
type Handler struct {
	root string
	fs   FS
}

// NewHandler returns a Handler serving root (an absolute directory path)
// through fsys. A nil fsys means the host filesystem.
func NewHandler(root string, fsys FS) *Handler {
	if fsys == nil {
		fsys = OSFS{}
	}
	return &Handler{
		root: filepath.Clean(root),
		fs:   fsys,
	}
}

// Root returns the served root.
func (h *Handler) Root() string {
	return h.root
}

// ServeHTTP treats every method as a read of the request path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	err := h.serve(w, r)
	if err == nil {
		return
	}

	status := StatusOf(err)
	evt := logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")
	WriteError(w, status)
}

// serve resolves and dispatches the request. A non-nil error means nothing
// has been written to w yet.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request) error {
	full, err := Resolve(h.root, r.URL.EscapedPath())
	if err != nil {
		return err
	}

	info, err := h.fs.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return fmt.Errorf("%w: stat: %w", ErrInternal, err)
	}

	switch {
	case info.IsDir():
		return h.serveDirectory(w, r, full)
	case info.Mode().IsRegular():
		return h.serveFile(w, full)
	default:
		return fmt.Errorf("%w: %s is neither a file nor a directory (%s)", ErrNotFound, full, info.Mode().Type())
	}
}

func (h *Handler) serveFile(w http.ResponseWriter, full string) error {
	data, err := h.fs.ReadFile(full)
	if err != nil {
		return fmt.Errorf("%w: read file: %w", ErrInternal, err)
	}

	w.Header().Set("Content-Type", MIMEType(full))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
	return nil
}

func (h *Handler) serveDirectory(w http.ResponseWriter, r *http.Request, full string) error {
	des, err := h.fs.ReadDir(full)
	if err != nil {
		return fmt.Errorf("%w: read directory: %w", ErrInternal, err)
	}

	urlPath := r.URL.Path
	if urlPath == "" {
		urlPath = "/"
	}
	page, err := RenderListing(urlPath, full == h.root, ClassifyEntries(des))
	if err != nil {
		return fmt.Errorf("%w: render listing: %w", ErrInternal, err)
	}

	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Length", strconv.Itoa(len(page)))
	w.WriteHeader(http.StatusOK)
	w.Write(page)
	return nil
}
