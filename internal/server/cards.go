package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cardbuilder/pkg/buildinfo"
	"github.com/matzehuels/cardbuilder/pkg/cache"
	"github.com/matzehuels/cardbuilder/pkg/card"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/logic"
	"github.com/matzehuels/cardbuilder/pkg/registry"
	"github.com/matzehuels/cardbuilder/pkg/render"
	"github.com/matzehuels/cardbuilder/pkg/session"
	"github.com/matzehuels/cardbuilder/pkg/store"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	if cat := r.URL.Query().Get("category"); cat != "" {
		writeJSON(w, http.StatusOK, map[string]any{"modules": s.Catalog.ListCategory(registry.Category(cat))})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"modules": s.Catalog.List()})
}

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	type template struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Proportions []int     `json:"proportions"`
		Widths      []float64 `json:"widths"`
	}
	var out []template
	for _, t := range layout.Templates() {
		out = append(out, template{ID: t.ID, Name: t.Name, Proportions: t.Proportions, Widths: t.Widths()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) putCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var c card.Card
	if err := decode(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if c.ID != "" && c.ID != id {
		writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "card id %q does not match path %q", c.ID, id))
		return
	}
	c.ID = id
	if c.Type == "" {
		c.Type = card.DefaultType
	}

	defer s.lock(id)()
	if err := s.Store.Put(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	defer s.lock(id)()
	if err := s.Store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// editResponse reports the layout after an edit. A refused or no-op edit
// returns the unchanged layout with Changed false.
type editResponse struct {
	Layout  layout.Layout `json:"layout"`
	Changed bool          `json:"changed"`
	Code    errs.Code     `json:"code,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

func writeEdit(w http.ResponseWriter, r *http.Request, l layout.Layout, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, editResponse{Layout: l, Changed: true})
		return
	}
	if errs.Is(err, errs.ErrCodeNoChange) {
		writeJSON(w, http.StatusOK, editResponse{Layout: l, Code: errs.ErrCodeNoChange, Reason: errs.UserMessage(err)})
		return
	}
	writeError(w, r, err)
}

func (s *Server) execCommand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var cmd editor.Command
	if err := decode(r, &cmd); err != nil {
		writeError(w, r, err)
		return
	}
	defer s.lock(id)()
	sess := session.New(id, s.SessionTTL)
	l, err := sess.Edit(r.Context(), s.Editor, store.Host{Store: s.Store, CardID: id}, cmd)
	writeEdit(w, r, l, err)
}

func (s *Server) visibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		States logic.States `json:"states"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	l := layout.Ensure(c.Layout, s.Editor.IDs)
	hidden := []string{}
	for _, a := range logic.Hidden(r.Context(), s.Logic, l, req.States) {
		hidden = append(hidden, a.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{"hidden": hidden})
}

var contentTypes = map[string]string{
	"dot": "text/vnd.graphviz; charset=utf-8",
	"svg": "image/svg+xml",
	"png": "image/png",
	"pdf": "application/pdf",
}

func (s *Server) renderCard(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, ok := contentTypes[format]
	if !ok {
		writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "unsupported render format %q", format))
		return
	}
	detail, _ := strconv.ParseBool(r.URL.Query().Get("detail"))

	c, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	l := layout.Ensure(c.Layout, s.Editor.IDs)
	key := s.Keys.RenderKey(l, cache.RenderKeyOpts{Format: format, Detail: detail})
	data, err := cache.Fetch(r.Context(), s.Cache, key, "render", s.CacheTTL, func() ([]byte, error) {
		return render.Render(r.Context(), render.ToDOT(l, render.Options{Detailed: detail}), format)
	})
	if err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "render card"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
