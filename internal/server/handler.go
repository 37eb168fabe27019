// Package server serves the site over HTTP.
package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/f4ah6o/pagesrv/internal/config"
	"github.com/f4ah6o/pagesrv/internal/page"
	"github.com/f4ah6o/pagesrv/internal/resolve"
)

// Handler answers every request, whatever its method, from the site tree.
type Handler struct {
	fsys     fs.FS
	resolver *resolve.Resolver
	pages    *page.Assembler
	log      logrus.FieldLogger
}

// NewHandler returns a Handler reading from fsys, which is rooted at cfg.Root.
func NewHandler(fsys fs.FS, cfg *config.Config, log logrus.FieldLogger) *Handler {
	return &Handler{
		fsys:     fsys,
		resolver: resolve.New(fsys, cfg),
		pages:    page.NewAssembler(fsys, cfg),
		log:      log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, err := h.resolver.Resolve(r.URL.Path, r.Referer())
	if err != nil {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Failed to resolve request")
		serverError(w)
		return
	}

	if target.Kind == resolve.KindPage {
		h.servePage(w, r, target)
		return
	}
	h.serveFile(w, target)
}

// servePage always answers 200, also when no page matched and the
// not-found page is sent instead.
func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, t resolve.Target) {
	body, err := h.pages.Assemble(t.Dir, t.Page)
	if err != nil {
		h.log.WithError(err).WithField("path", r.URL.Path).Error("Failed to assemble page")
		serverError(w)
		return
	}
	if !t.Matched() {
		h.log.WithFields(logrus.Fields{"path": r.URL.Path, "dir": t.Dir}).Debug("No page matched, sending not-found page")
	}

	w.Header().Set("Content-Type", page.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// serveFile sends a stylesheet or image verbatim: 404 when the file is
// missing, 500 on any other read error, both without a body.
func (h *Handler) serveFile(w http.ResponseWriter, t resolve.Target) {
	if t.File == "" {
		h.log.WithField("kind", t.Kind).Warn("Request does not name a file inside the site")
		w.WriteHeader(http.StatusNotFound)
		return
	}

	data, err := fs.ReadFile(h.fsys, t.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.log.WithField("file", t.File).Warn("File not found")
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.log.WithError(err).WithField("file", t.File).Error("Failed to read file")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", t.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func serverError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("Server Error"))
}
