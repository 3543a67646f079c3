package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cardbuilder/pkg/drag"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/observability"
	"github.com/matzehuels/cardbuilder/pkg/session"
	"github.com/matzehuels/cardbuilder/pkg/store"
)

// =============================================================================
// Session lifecycle
// =============================================================================

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"card_id"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := errs.ValidateID(req.CardID); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := s.Store.Get(r.Context(), req.CardID); err != nil {
		writeError(w, r, err)
		return
	}
	sess := session.New(req.CardID, s.SessionTTL)
	if err := s.Sessions.Set(r.Context(), sess); err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "save session"))
		return
	}
	observability.Logger(r.Context()).Info("session created", "session", sess.ID, "card", sess.CardID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return sess, nil
}

// withSession loads the session named in the path, holds the card lock while
// fn runs and saves the session afterwards, whatever fn returned. The session
// lock is held from load to save so overlapping requests on one session see
// each other's state.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *session.Session, host session.Host)) {
	sid := chi.URLParam(r, "sid")
	defer s.lockSession(sid)()

	sess, err := s.loadSession(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer s.lock(sess.CardID)()

	fn(sess, store.Host{Store: s.Store, CardID: sess.CardID})

	sess.Touch(s.SessionTTL)
	if err := s.Sessions.Set(r.Context(), sess); err != nil {
		observability.Logger(r.Context()).Error("save session failed", "session", sess.ID, "err", err)
	}
}

// =============================================================================
// Selection and commands
// =============================================================================

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		At string `json:"at"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := layout.ParseAddress(req.At)
	if err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInvalidCoordinate, err, "select"))
		return
	}
	s.withSession(w, r, func(sess *session.Session, host session.Host) {
		p, err := host.Layout(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if _, ok := layout.Ensure(p, s.Editor.IDs).Node(a); !ok {
			writeError(w, r, errs.New(errs.ErrCodeInvalidCoordinate, "no node at %s", a))
			return
		}
		sess.Select(a)
		writeJSON(w, http.StatusOK, sess)
	})
}

func (s *Server) sessionCommand(w http.ResponseWriter, r *http.Request) {
	var cmd editor.Command
	if err := decode(r, &cmd); err != nil {
		writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session, host session.Host) {
		l, err := sess.Edit(r.Context(), s.Editor, host, cmd)
		writeEdit(w, r, l, err)
	})
}

// =============================================================================
// Drag and drop
// =============================================================================

type dragRequest struct {
	Kind    string     `json:"kind"`
	At      string     `json:"at"`
	Pointer drag.Point `json:"pointer"`
	Bounds  drag.Rect  `json:"bounds"`
}

func (req dragRequest) target() (drag.Target, error) {
	t, err := drag.DecodeTarget(req.Kind, req.At)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidCoordinate, err, "drop target")
	}
	return t, nil
}

func (s *Server) dragStart(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := layout.ParseAddress(req.At)
	if err != nil {
		writeError(w, r, errs.Wrap(errs.ErrCodeInvalidCoordinate, err, "drag source"))
		return
	}
	s.withSession(w, r, func(sess *session.Session, host session.Host) {
		src, err := sess.DragStart(r.Context(), host, a)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"drag":    sess.Drag,
			"allowed": drag.AllowedTargets(src.Kind()),
		})
	})
}

func (s *Server) dragEnter(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.target()
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session, _ session.Host) {
		accepted := sess.DragEnter(t)
		writeJSON(w, http.StatusOK, map[string]any{"accepted": accepted, "drag": sess.Drag})
	})
}

func (s *Server) dragLeave(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.target()
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session, _ session.Host) {
		cleared := sess.DragLeave(t, req.Pointer, req.Bounds)
		writeJSON(w, http.StatusOK, map[string]any{"cleared": cleared, "drag": sess.Drag})
	})
}

// dragDrop drops on the target in the body, or on the hovered target when the
// body is empty or names no kind.
func (s *Server) dragDrop(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var t drag.Target
	if req.Kind != "" {
		var err error
		if t, err = req.target(); err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.withSession(w, r, func(sess *session.Session, host session.Host) {
		l, err := sess.DragDrop(r.Context(), s.Editor, host, t)
		writeEdit(w, r, l, err)
	})
}

func (s *Server) dragEnd(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session, _ session.Host) {
		sess.DragEnd(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"drag": sess.Drag})
	})
}
