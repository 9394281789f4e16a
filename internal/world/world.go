package world

import (
	"fmt"
	"runtime"

	"SiteViewer/internal/loader"
	"SiteViewer/internal/logger"
	"SiteViewer/internal/renderer"
	"SiteViewer/internal/scene"

	"go.uber.org/zap"
)

var (
	clearColor   = renderer.Color{R: 0, G: 0, B: 0, A: 1}
	initialColor = renderer.RGB(1, 0, 0)
)

// World composes the imported model with the static site and renders it.
// The embedded Camera fields are set by the host between frames. All methods
// must be called on the goroutine that owns the graphics context.
type World struct {
	renderer.Camera

	width  int
	height int

	scene    *scene.ImportedScene
	overlay  renderer.TextOverlay
	labels   []renderer.Label
	disposed bool
}

type options struct {
	importer loader.Importer
	overlay  renderer.TextOverlay
	labels   []renderer.Label
}

type Option func(*options)

// WithImporter replaces the default extension-based importer.
func WithImporter(imp loader.Importer) Option {
	return func(o *options) { o.importer = imp }
}

// WithOverlay sets where labels are drawn. Without it, a context that also
// implements renderer.TextOverlay is used; otherwise labels are skipped.
func WithOverlay(t renderer.TextOverlay) Option {
	return func(o *options) { o.overlay = t }
}

func WithLabels(labels []renderer.Label) Option {
	return func(o *options) { o.labels = labels }
}

// New creates a World for the model at scenePath/sceneFileName. The model is
// not read until Initialize.
func New(scenePath, sceneFileName string, width, height int, ctx renderer.Context, opts ...Option) *World {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.overlay == nil {
		o.overlay, _ = ctx.(renderer.TextOverlay)
	}

	w := &World{
		Camera:  renderer.NewDefaultCamera(width, height),
		width:   width,
		height:  height,
		scene:   scene.New(scenePath, sceneFileName, ctx, o.importer),
		overlay: o.overlay,
	}
	w.SetLabels(o.labels)

	// Fallback for owners that never call Dispose. The finalizer runs off the
	// graphics thread, so it only queues the scene for scene.ReleaseGarbage.
	runtime.SetFinalizer(w, func(w *World) {
		if !w.disposed {
			scene.Discard(w.scene)
		}
	})
	return w
}

func (w *World) Width() int  { return w.width }
func (w *World) Height() int { return w.height }

// Projection returns the parameters applied by the last Resize.
func (w *World) Projection() renderer.Projection {
	return w.Camera.Projection
}

// Labels returns a copy of the overlay labels.
func (w *World) Labels() []renderer.Label {
	return append([]renderer.Label(nil), w.labels...)
}

// SetLabels replaces the overlay labels drawn from the next frame on.
func (w *World) SetLabels(labels []renderer.Label) {
	w.labels = append([]renderer.Label(nil), labels...)
}

// Initialize sets the global render state and loads the model. Scene errors
// are wrapped; errors.As still finds a *scene.AssetError.
func (w *World) Initialize(ctx renderer.Context) error {
	ctx.ClearColor(clearColor)
	ctx.Color(initialColor)
	ctx.Enable(renderer.DepthTest)
	ctx.Enable(renderer.CullFace)
	ctx.ShadeModel(renderer.Flat)

	if err := w.scene.LoadScene(); err != nil {
		return fmt.Errorf("initialize world: %w", err)
	}
	if err := w.scene.Initialize(); err != nil {
		return fmt.Errorf("initialize world: %w", err)
	}

	logger.Log.Info("World initialized",
		zap.String("scene", w.scene.Path()),
		zap.Int("placements", len(environment)))
	return nil
}

// Resize updates the projection and viewport for a surface of the given
// size. A zero height is treated as 1.
func (w *World) Resize(ctx renderer.Context, width, height int) {
	w.width = width
	w.height = w.UpdateProjection(width, height)

	w.ApplyProjection(ctx)
	ctx.Viewport(renderer.Viewport{X: 0, Y: 0, Width: w.width, Height: w.height})
	ctx.MatrixMode(renderer.MatrixModelView)
	ctx.LoadIdentity()
}

// Draw renders one frame. The transform stack is left as it was found.
func (w *World) Draw(ctx renderer.Context) {
	ctx.Clear(renderer.ColorBuffer | renderer.DepthBuffer)
	ctx.Viewport(renderer.Viewport{X: 0, Y: 0, Width: w.width, Height: w.height})

	w.drawWorld(ctx)
	w.drawOverlay(ctx)

	ctx.Flush()
}

func (w *World) drawWorld(ctx renderer.Context) {
	defer renderer.Push(ctx).Pop()
	w.ApplyView(ctx)

	w.drawModel(ctx)
	for i := range environment {
		environment[i].draw(ctx)
	}
}

func (w *World) drawModel(ctx renderer.Context) {
	renderer.WithMatrix(ctx, func() {
		ctx.Translate(ModelTranslate[0], ModelTranslate[1], ModelTranslate[2])
		ctx.Scale(ModelScale[0], ModelScale[1], ModelScale[2])
		ctx.Rotate(ModelRotationY, 0, 1, 0)
		w.scene.Draw()
	})
}

// OverlayViewport is the lower-right region labels are drawn into.
func (w *World) OverlayViewport() renderer.Viewport {
	return renderer.Viewport{
		X:      w.width * 4 / 5,
		Y:      0,
		Width:  w.width / 5,
		Height: w.height / 2,
	}
}

func (w *World) drawOverlay(ctx renderer.Context) {
	vp := w.OverlayViewport()
	ctx.Viewport(vp)
	if w.overlay == nil {
		return
	}
	for _, l := range w.labels {
		w.overlay.DrawText(vp, l)
	}
}

// Dispose releases the model. Calling it more than once is a no-op.
func (w *World) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	runtime.SetFinalizer(w, nil)
	w.scene.Dispose()
}
