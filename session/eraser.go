package session

import (
	"github.com/gogpu/markup"
	"github.com/gogpu/markup/history"
)

// eraserGesture accumulates the commands an erase drag has already
// applied, so pointer-up can record them as one undo batch and cancel
// can roll them back without touching the history.
type eraserGesture struct {
	active  bool
	applied []history.Command
}

func (g *eraserGesture) begin() {
	g.active = true
	g.applied = g.applied[:0]
}

// eraseAt slices every stroke under the eraser disc at p. Each affected
// stroke resolves in full before the next is examined, since slicing
// shifts the positions of its layer neighbors.
func (s *Session) eraseAt(p markup.Point) {
	radius := s.cfg.eraserRadius
	var ids []markup.ObjectID
	for _, l := range s.doc.Layers() {
		if !l.Visible || l.Locked {
			continue
		}
		objs, err := s.doc.ObjectsOn(l.ID)
		if err != nil {
			continue
		}
		for _, o := range objs {
			if o.Kind != markup.KindStroke {
				continue
			}
			if !o.PaintedBounds().Outset(radius).Contains(p) {
				continue
			}
			ids = append(ids, o.ID)
		}
	}
	for _, id := range ids {
		s.eraseStroke(id, p, radius)
	}
}

// eraseStroke splits one stroke around the cut point and applies the
// resulting sub-step live: a replacement for the first surviving run, an
// insertion per extra run, or a plain removal when nothing survives.
// The cut moves into the stroke's local space, where the disc stays
// circular under the uniform transform.
func (s *Session) eraseStroke(id markup.ObjectID, cut markup.Point, radius float64) {
	o, ok := s.doc.Object(id)
	if !ok {
		return
	}
	scale := o.Transform.Scale
	if scale <= 0 {
		return
	}
	local := o.Transform.Matrix().Invert().Apply(cut)
	runs := markup.SplitPolyline(o.Points, local, radius/scale)
	if len(runs) == 1 && len(runs[0]) == len(o.Points) {
		return
	}
	index := s.objectIndex(o)

	var cmds []history.Command
	if len(runs) == 0 {
		cmds = append(cmds, history.RemoveObjectCommand{Object: o, Index: index})
	} else {
		first := o.Clone()
		first.Points = runs[0]
		cmds = append(cmds, history.ReplaceObjectCommand{Before: o, After: first})
		for i, run := range runs[1:] {
			frag := o.Clone()
			frag.ID = s.doc.AllocateObjectID()
			frag.Points = run
			cmds = append(cmds, history.InsertObjectCommand{Object: frag, Index: index + 1 + i})
		}
	}
	for _, cmd := range cmds {
		if err := cmd.Apply(s.doc); err != nil {
			markup.Logger().Warn("erase step failed", "object", id, "err", err)
			return
		}
		s.eraser.applied = append(s.eraser.applied, cmd)
	}
	markup.Logger().Debug("erase step", "object", id, "runs", len(runs))
}

// finishErase records the whole gesture as one undo batch. A drag that
// touched nothing records nothing.
func (s *Session) finishErase() error {
	applied := s.eraser.applied
	s.eraser.active = false
	s.eraser.applied = nil
	s.state = StateIdle
	if len(applied) == 0 {
		return nil
	}
	s.hist.Record(history.BatchCommand{Label: "erase", Commands: applied})
	s.pruneSelection()
	markup.Logger().Debug("erase gesture", "commands", len(applied))
	return nil
}

// abortErase rolls the applied sub-steps back in reverse order, leaving
// the document as it was when the gesture began. The history is never
// involved: nothing was recorded yet.
func (s *Session) abortErase() {
	for i := len(s.eraser.applied) - 1; i >= 0; i-- {
		if err := s.eraser.applied[i].Invert().Apply(s.doc); err != nil {
			markup.Logger().Warn("erase rollback failed", "err", err)
		}
	}
	s.eraser.applied = nil
	s.eraser.active = false
}
