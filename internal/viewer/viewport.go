// Package viewer is the fyne viewport: it draws the model and the
// measurement overlay and forwards pointer input.
package viewer

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/colornames"

	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/pkg/geometry"
)

const markerSize = float32(12)

// InputHandler receives pointer input in viewport coordinates
type InputHandler interface {
	PointerDown(pos pointer.Position)
	PointerMove(pos pointer.Position, pressed bool)
	PointerUp(pos pointer.Position)
	Scroll(dy float64)
}

// Label is a text drawn at a world position
type Label struct {
	Position geometry.Vector3
	Text     string
	Color    color.Color
}

// Viewport renders a scene through an orbit camera
type Viewport struct {
	widget.BaseWidget

	scene   *scene.Scene
	orbit   *Orbit
	handler InputHandler
	labels  func() []Label

	mu      sync.Mutex
	size    fyne.Size
	pressed bool
	last    pointer.Position
}

// NewViewport creates the viewport widget
func NewViewport(sc *scene.Scene, orbit *Orbit) *Viewport {
	v := &Viewport{scene: sc, orbit: orbit}
	v.ExtendBaseWidget(v)
	return v
}

// SetInputHandler sets who receives pointer input
func (v *Viewport) SetInputHandler(h InputHandler) {
	v.handler = h
}

// SetLabelSource sets the provider of distance labels
func (v *Viewport) SetLabelSource(fn func() []Label) {
	v.labels = fn
}

// ViewportSize returns the logical size pointer positions refer to
func (v *Viewport) ViewportSize() (float64, float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(v.size.Width), float64(v.size.Height)
}

// ProjectToScreen maps a world point to viewport coordinates
func (v *Viewport) ProjectToScreen(p geometry.Vector3) (pointer.Position, bool) {
	w, h := v.ViewportSize()
	ndc, _, ok := v.orbit.Camera().ProjectNDC(p)
	if !ok {
		return pointer.Position{}, false
	}
	return pointer.ToScreen(ndc, w, h), true
}

func toPosition(p fyne.Position) pointer.Position {
	return pointer.Position{X: float64(p.X), Y: float64(p.Y)}
}

// MouseDown implements desktop.Mouseable
func (v *Viewport) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	pos := toPosition(ev.Position)
	v.mu.Lock()
	v.pressed = true
	v.last = pos
	v.mu.Unlock()
	if v.handler != nil {
		v.handler.PointerDown(pos)
	}
}

// MouseUp implements desktop.Mouseable
func (v *Viewport) MouseUp(ev *desktop.MouseEvent) {
	v.release(toPosition(ev.Position))
}

// Dragged implements fyne.Draggable
func (v *Viewport) Dragged(ev *fyne.DragEvent) {
	v.move(toPosition(ev.Position), true)
}

// DragEnd implements fyne.Draggable
func (v *Viewport) DragEnd() {
	v.mu.Lock()
	pos := v.last
	v.mu.Unlock()
	v.release(pos)
}

// MouseIn implements desktop.Hoverable
func (v *Viewport) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable
func (v *Viewport) MouseMoved(ev *desktop.MouseEvent) {
	v.move(toPosition(ev.Position), false)
}

// MouseOut implements desktop.Hoverable
func (v *Viewport) MouseOut() {}

// Scrolled implements fyne.Scrollable
func (v *Viewport) Scrolled(ev *fyne.ScrollEvent) {
	if v.handler != nil {
		v.handler.Scroll(float64(ev.Scrolled.DY))
	}
}

func (v *Viewport) move(pos pointer.Position, pressed bool) {
	v.mu.Lock()
	v.last = pos
	pressed = pressed && v.pressed
	v.mu.Unlock()
	if v.handler != nil {
		v.handler.PointerMove(pos, pressed)
	}
}

// release delivers PointerUp once per press; fyne reports both MouseUp
// and DragEnd for a drag
func (v *Viewport) release(pos pointer.Position) {
	v.mu.Lock()
	if !v.pressed {
		v.mu.Unlock()
		return
	}
	v.pressed = false
	v.mu.Unlock()
	if v.handler != nil {
		v.handler.PointerUp(pos)
	}
}

// CreateRenderer implements fyne.Widget
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	r := &viewportRenderer{viewport: v}
	r.raster = canvas.NewRaster(r.draw)
	r.objects = []fyne.CanvasObject{r.raster}
	return r
}

type viewportRenderer struct {
	viewport *Viewport
	raster   *canvas.Raster
	objects  []fyne.CanvasObject
}

// draw renders the model and segments at pixel resolution
func (r *viewportRenderer) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}
	cam := r.viewport.orbit.Camera()
	renderModel(img, cam, r.viewport.scene.Model())
	renderSegments(img, cam, r.viewport.scene.Objects())
	return img
}

func (r *viewportRenderer) Layout(size fyne.Size) {
	r.viewport.mu.Lock()
	r.viewport.size = size
	r.viewport.mu.Unlock()
	if size.Height > 0 {
		r.viewport.orbit.SetAspect(float64(size.Width) / float64(size.Height))
	}
	r.raster.Resize(size)
	r.Refresh()
}

func (r *viewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

// Refresh rebuilds the marker and label overlay
func (r *viewportRenderer) Refresh() {
	v := r.viewport
	objects := []fyne.CanvasObject{r.raster}

	for _, obj := range v.scene.Objects() {
		if obj.Kind() != scene.KindMarker {
			continue
		}
		pos, ok := v.ProjectToScreen(obj.Points()[0])
		if !ok {
			continue
		}
		marker := canvas.NewCircle(obj.Tint())
		marker.StrokeColor = colornames.White
		marker.StrokeWidth = 2
		marker.Resize(fyne.NewSize(markerSize, markerSize))
		marker.Move(fyne.NewPos(float32(pos.X)-markerSize/2, float32(pos.Y)-markerSize/2))
		objects = append(objects, marker)
	}

	if v.labels != nil {
		for _, l := range v.labels() {
			objects = append(objects, r.label(l)...)
		}
	}

	r.objects = objects
	r.raster.Refresh()
	for _, o := range objects[1:] {
		o.Refresh()
	}
}

// label draws the text centered above its anchor on a dark plate
func (r *viewportRenderer) label(l Label) []fyne.CanvasObject {
	pos, ok := r.viewport.ProjectToScreen(l.Position)
	if !ok {
		return nil
	}
	const padding = float32(4)

	text := canvas.NewText(l.Text, l.Color)
	text.TextStyle = fyne.TextStyle{Bold: true}
	size := text.MinSize()

	bg := canvas.NewRectangle(color.NRGBA{R: 20, G: 20, B: 20, A: 220})
	bg.StrokeColor = l.Color
	bg.StrokeWidth = 2
	bg.CornerRadius = 3
	bg.Resize(fyne.NewSize(size.Width+2*padding, size.Height+2*padding))
	bg.Move(fyne.NewPos(float32(pos.X)-size.Width/2-padding, float32(pos.Y)-size.Height-2*padding-markerSize/2))

	text.Resize(size)
	text.Move(fyne.NewPos(float32(pos.X)-size.Width/2, float32(pos.Y)-size.Height-padding-markerSize/2))
	return []fyne.CanvasObject{bg, text}
}

func (r *viewportRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewportRenderer) Destroy() {}
