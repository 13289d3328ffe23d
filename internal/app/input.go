package app

import (
	"github.com/philipparndt/usdzview/internal/pointer"
)

// PointerDown starts a press. A press on a marker grabs it; anything else
// may become a click or a camera drag.
func (a *App) PointerDown(pos pointer.Position) {
	a.feed.Publish(pos)
	a.drag.PointerDown()
	a.click.Down(pos)
	a.last = pos
	a.grab.Press(pos)
}

// PointerMove tracks the pointer. While pressed it drags the grabbed
// marker or orbits the camera.
func (a *App) PointerMove(pos pointer.Position, pressed bool) {
	a.feed.Publish(pos)
	prev := a.last
	a.last = pos
	if !pressed {
		return
	}

	a.click.Move(pos)
	if a.grab.Move(pos) {
		return
	}
	a.orbit.Drag(pos.X-prev.X, pos.Y-prev.Y)
}

// PointerUp ends a press. A click places a point unless it is the
// trailing click of a marker drag.
func (a *App) PointerUp(pos pointer.Position) {
	a.feed.Publish(pos)
	a.last = pos
	a.grab.Release(pos)

	if !a.click.Up(pos) {
		return
	}
	if a.drag.ConsumeClick() {
		return
	}
	a.place(pos)
}

// Scroll zooms the camera
func (a *App) Scroll(dy float64) {
	a.orbit.Scroll(dy)
}

// Escape cancels a running drag, or else the pending first point
func (a *App) Escape() bool {
	if a.drag.Cancel() {
		a.grab.Cancel()
		return true
	}
	return a.store.CancelPending()
}

// place puts a point under pos with camera rotation held for the duration
func (a *App) place(pos pointer.Position) {
	if a.orbit.RotationEnabled() {
		a.orbit.SetRotationEnabled(false)
		defer a.orbit.SetRotationEnabled(true)
	}

	w, h := a.view.ViewportSize()
	hit, ok := a.picker.Pick(pointer.ToNDC(pos, w, h))
	if !ok {
		a.log.Debug().Float64("x", pos.X).Float64("y", pos.Y).Msg("click missed the model")
	}
	a.store.PlacePoint(hit.Point, ok)
}
