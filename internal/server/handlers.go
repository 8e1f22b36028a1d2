package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/cacaonk0027/neekuro/pkg/buildinfo"
	"github.com/cacaonk0027/neekuro/pkg/card"
	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/fonts"
	"github.com/cacaonk0027/neekuro/pkg/nekoapi"
	"github.com/cacaonk0027/neekuro/pkg/welcome"
)

var contentTypes = map[welcome.Format]string{
	welcome.FormatPNG:  "image/png",
	welcome.FormatJPEG: "image/jpeg",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "card document exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "cannot read request body"), 0)
		return
	}

	c, err := card.Parse(body, card.FormatJSON)
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	if c.UsesFiles() {
		writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "file sources are not accepted over HTTP, use url or data"), 0)
		return
	}
	// Custom fonts must stay inside the assets root.
	if c.Font == fonts.Custom && !filepath.IsLocal(c.FontPath) {
		writeError(w, r, errs.Validation("font_path", "font_path must be relative to the server assets directory"), 0)
		return
	}

	b, err := c.Builder(s.builderOpts...)
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	out, err := b.Build(r.Context())
	if err != nil {
		writeError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", contentTypes[b.Config().Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

type catalogEntry struct {
	Category nekoapi.Category `json:"category"`
	Gifs     []string         `json:"gifs"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	var entries []catalogEntry
	for _, c := range nekoapi.Categories() {
		entries = append(entries, catalogEntry{Category: c, Gifs: nekoapi.Gifs(c)})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGif(w http.ResponseWriter, r *http.Request) {
	if s.gifs == nil {
		writeError(w, r, errs.New(errs.ErrCodeInternal, "gif lookups are not configured"), http.StatusServiceUnavailable)
		return
	}
	category := nekoapi.Category(chi.URLParam(r, "category"))
	gif, err := s.gifs.GetGif(r.Context(), category, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, gif)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errs.Code `json:"code"`
	Message   string    `json:"message"`
	Param     string    `json:"param,omitempty"`
	Setter    string    `json:"setter,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// writeError answers with the JSON error envelope. A zero status is derived
// from the error code.
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == 0 {
		status = errs.HTTPStatus(err)
	}
	detail := errorDetail{
		Code:      errs.GetCode(err),
		Message:   errs.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
	var e *errs.Error
	if errors.As(err, &e) {
		detail.Param = e.Param
		detail.Setter = e.Setter
	}
	if detail.Code == "" {
		detail.Code = errs.ErrCodeInternal
		detail.Message = "internal error"
	}
	writeJSON(w, status, errorBody{Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
