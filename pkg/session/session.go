// Package session holds the state of one person editing one card.
//
// A [Session] threads the selected node and the drag gesture through every
// call, so nothing about an edit in progress lives in ambient globals. Every
// layout change goes through the session, which reads the current layout from
// the [Host], applies the edit on a private copy and reports the result back
// with exactly one [Host.LayoutChanged] call. Failed and refused edits do not
// notify the host; they are logged and returned to the caller.
//
// Sessions are plain JSON-serialisable values. Stores keep them between
// requests:
//   - memory: In-memory storage for development/testing and the TUI
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for CLI applications
//
// # Usage
//
//	sess := session.New(cardID, session.DefaultTTL)
//	if _, err := sess.DragStart(ctx, host, layout.ModuleAddress(0, 0, 1)); err != nil {
//	    return err
//	}
//	sess.DragEnter(drag.ColumnTarget{Row: 0, Column: 1})
//	next, err := sess.DragDrop(ctx, ed, host, nil)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cardbuilder/pkg/drag"
	"github.com/matzehuels/cardbuilder/pkg/editor"
	errs "github.com/matzehuels/cardbuilder/pkg/errors"
	"github.com/matzehuels/cardbuilder/pkg/layout"
	"github.com/matzehuels/cardbuilder/pkg/observability"
)

// DefaultTTL is the default session duration.
const DefaultTTL = 12 * time.Hour

// Host owns the card configuration. The session never keeps its own copy of
// the layout between calls.
type Host interface {
	// Layout returns the current layout, or nil when the card has none yet.
	Layout(ctx context.Context) (*layout.Layout, error)

	// LayoutChanged receives each new layout.
	LayoutChanged(ctx context.Context, l layout.Layout) error
}

// Session is the editor state of one card.
type Session struct {
	ID            string          `json:"id"`
	CardID        string          `json:"card_id"`
	Selection     *layout.Address `json:"selection,omitempty"`
	Drag          drag.Machine    `json:"drag"`
	DragStartedAt time.Time       `json:"drag_started_at,omitzero"`
	CreatedAt     time.Time       `json:"created_at"`
	ExpiresAt     time.Time       `json:"expires_at"`
}

// New creates a session for cardID.
func New(cardID string, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CardID:    cardID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Select marks the node at a as selected.
func (s *Session) Select(a layout.Address) { s.Selection = &a }

// =============================================================================
// Edits
// =============================================================================

// Edit runs cmd against the host's current layout. On success the host is
// notified once and the new layout is returned. On failure the current layout
// is returned with the error and the host is not notified.
func (s *Session) Edit(ctx context.Context, ed *editor.Editor, host Host, cmd editor.Command) (layout.Layout, error) {
	l, err := current(ctx, ed, host)
	if err != nil {
		return l, err
	}
	start := time.Now()
	next, err := ed.Exec(l, cmd)
	observability.Editor().OnEdit(ctx, string(cmd.Op), time.Since(start), err)
	return s.publish(ctx, host, string(cmd.Op), l, next, err)
}

// =============================================================================
// Drag and drop
// =============================================================================

// DragStart picks up the node at a.
func (s *Session) DragStart(ctx context.Context, host Host, a layout.Address) (drag.Source, error) {
	l, err := current(ctx, nil, host)
	if err != nil {
		return nil, err
	}
	src, err := s.Drag.Start(l, a)
	if err != nil {
		report(ctx, "drag_start", err)
		return nil, err
	}
	s.DragStartedAt = time.Now()
	observability.Drag().OnDragStart(ctx, string(src.Kind()))
	observability.Logger(ctx).Debug("drag started", "source", a, "id", src.SnapshotID())
	return src, nil
}

// DragEnter offers t as the drop target and reports whether it was accepted.
func (s *Session) DragEnter(t drag.Target) bool { return s.Drag.Enter(t) }

// DragLeave clears the hover on t once pointer has left bounds.
func (s *Session) DragLeave(t drag.Target, pointer drag.Point, bounds drag.Rect) bool {
	return s.Drag.Leave(t, pointer, bounds)
}

// DragDrop ends the gesture over t (nil for the hovered target) and moves the
// dragged node. The host is notified once if the layout changed.
func (s *Session) DragDrop(ctx context.Context, ed *editor.Editor, host Host, t drag.Target) (layout.Layout, error) {
	started := s.DragStartedAt
	s.DragStartedAt = time.Time{}

	srcKind := ""
	if src := s.Drag.Source(); src != nil {
		srcKind = string(src.Kind())
	}
	src, tgt, dropErr := s.Drag.Drop(t)

	l, err := current(ctx, ed, host)
	if err != nil {
		return l, err
	}
	if dropErr != nil {
		observability.Drag().OnDrop(ctx, srcKind, targetKind(t), time.Since(started), dropErr)
		report(ctx, "drop", dropErr)
		return l, dropErr
	}

	next, err := ed.Move(l, src, tgt)
	observability.Drag().OnDrop(ctx, srcKind, string(tgt.Kind()), time.Since(started), err)
	return s.publish(ctx, host, "move", l, next, err)
}

// DragEnd cancels the gesture without touching the layout.
func (s *Session) DragEnd(ctx context.Context) {
	if src := s.Drag.Source(); src != nil {
		observability.Drag().OnDragCancel(ctx, string(src.Kind()))
		observability.Logger(ctx).Debug("drag cancelled", "source", src.Address())
	}
	s.Drag.End()
	s.DragStartedAt = time.Time{}
}

func targetKind(t drag.Target) string {
	if t == nil {
		return ""
	}
	return string(t.Kind())
}

// =============================================================================
// Helpers
// =============================================================================

// current reads the host's layout, falling back to the default layout.
func current(ctx context.Context, ed *editor.Editor, host Host) (layout.Layout, error) {
	p, err := host.Layout(ctx)
	if err != nil {
		return layout.Layout{}, hostError(err, "read layout")
	}
	var ids layout.IDFunc
	if ed != nil {
		ids = ed.IDs
	}
	if ids == nil {
		ids = layout.NewID
	}
	return layout.Ensure(p, ids), nil
}

func (s *Session) publish(ctx context.Context, host Host, op string, prev, next layout.Layout, err error) (layout.Layout, error) {
	if err != nil {
		report(ctx, op, err)
		return prev, err
	}
	if err := host.LayoutChanged(ctx, next); err != nil {
		observability.Logger(ctx).Error("layout changed notification failed", "op", op, "err", err)
		return prev, hostError(err, "publish layout")
	}
	if s.Selection != nil {
		if _, ok := next.Node(*s.Selection); !ok {
			s.Selection = nil
		}
	}
	observability.Editor().OnLayoutChanged(ctx, s.CardID, len(next.Rows), next.ModuleCount())
	observability.Logger(ctx).Debug("layout changed", "op", op, "card", s.CardID, "rows", len(next.Rows))
	return next, nil
}

// hostError keeps coded host errors and wraps anything else as internal.
func hostError(err error, msg string) error {
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeInternal, err, "%s", msg)
}

// report logs an edit that did not happen.
func report(ctx context.Context, op string, err error) {
	logger := observability.Logger(ctx)
	if errs.IsRefusal(err) {
		logger.Info("edit skipped", "op", op, "code", errs.GetCode(err), "reason", errs.UserMessage(err))
		return
	}
	logger.Warn("edit aborted", "op", op, "code", errs.GetCode(err), "reason", errs.UserMessage(err))
}
