package app

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/dragdrop"
	"github.com/justyntemme/dragdrop/internal/store"
)

var (
	colIdle      = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	colAccepting = color.NRGBA{R: 210, G: 240, B: 215, A: 255}
	colRejecting = color.NRGBA{R: 245, G: 215, B: 215, A: 255}
	colBorder    = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	colMuted     = color.NRGBA{R: 110, G: 110, B: 110, A: 255}
)

func (o *Orchestrator) layout(gtx layout.Context) layout.Dimensions {
	zv := o.zone.view()
	sess := o.dispatcher.Session()

	o.mu.Lock()
	entries := o.entries
	nativeUp, nativeErr := o.nativeUp, o.nativeErr
	reloaded := o.lastReload
	o.mu.Unlock()

	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return o.layoutZone(gtx, zv)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return o.layoutStatus(gtx, sess, zv, nativeUp, nativeErr, reloaded)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return o.layoutJournal(gtx, entries)
			}),
		)
	})
}

func (o *Orchestrator) layoutZone(gtx layout.Context, zv zoneView) layout.Dimensions {
	bg := colIdle
	msg := "Drop files or text here"
	switch {
	case zv.Hovering && zv.Accepting:
		bg = colAccepting
		msg = fmt.Sprintf("Release to %s %s", effectFor(zv.Keys), zv.Current)
	case zv.Hovering:
		bg = colRejecting
		msg = fmt.Sprintf("Not accepted: %s", zv.Current)
	}

	height := gtx.Dp(unit.Dp(120))
	gtx.Constraints.Min.Y = height
	gtx.Constraints.Max.Y = height
	gtx.Constraints.Min.X = gtx.Constraints.Max.X

	return widget.Border{Color: colBorder, Width: unit.Dp(1), CornerRadius: unit.Dp(6)}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			size := gtx.Constraints.Min
			rr := gtx.Dp(unit.Dp(6))
			defer clip.UniformRRect(image.Rectangle{Max: size}, rr).Push(gtx.Ops).Pop()
			paint.ColorOp{Color: bg}.Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)

			return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return material.H6(o.theme, msg).Layout(gtx)
			})
		})
}

func (o *Orchestrator) layoutStatus(gtx layout.Context, sess dragdrop.Session, zv zoneView, nativeUp bool, nativeErr error, reloaded time.Time) layout.Dimensions {
	native := "native source: starting"
	switch {
	case nativeUp:
		native = "native source: registered"
	case nativeErr != nil:
		native = "native source: " + nativeErr.Error()
	}

	last := "no drops yet"
	if zv.Drops > 0 {
		last = fmt.Sprintf("last drop: %s as %s, %s (%d total)",
			zv.LastDrop, zv.LastEff, humanize.Time(zv.LastAt), zv.Drops)
	}

	lines := []string{
		fmt.Sprintf("session: %s, %d moves, effect %s", sess.State, sess.Overs, o.dispatcher.Effect()),
		last,
		native,
	}
	if !reloaded.IsZero() {
		lines = append(lines, "config reloaded "+humanize.Time(reloaded))
	}
	children := make([]layout.FlexChild, len(lines))
	for i, line := range lines {
		children[i] = layout.Rigid(material.Body2(o.theme, line).Layout)
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func (o *Orchestrator) layoutJournal(gtx layout.Context, entries []store.Entry) layout.Dimensions {
	if o.journal == nil {
		lbl := material.Caption(o.theme, "journal disabled")
		lbl.Color = colMuted
		return lbl.Layout(gtx)
	}

	children := []layout.FlexChild{
		layout.Rigid(material.Subtitle2(o.theme, "Recent dispatches").Layout),
	}
	for _, e := range entries {
		handled := "missed"
		if e.Handled {
			handled = fmt.Sprintf("handled by #%d", e.HandledBy)
		}
		line := fmt.Sprintf("%-9s %-14s %-6s %s(%d)  %s",
			e.Phase, handled, e.Effect, e.PayloadKind, e.ItemCount, humanize.Time(e.At))
		lbl := material.Caption(o.theme, line)
		if !e.Handled {
			lbl.Color = colMuted
		}
		children = append(children, layout.Rigid(lbl.Layout))
	}
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}
