package engine

import (
	"fmt"
	"runtime"

	"SiteViewer/internal/config"
	"SiteViewer/internal/loader"
	"SiteViewer/internal/logger"
	"SiteViewer/internal/renderer"
	"SiteViewer/internal/scene"
	"SiteViewer/internal/world"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// Window hosts a World in a glfw window: it owns the GL context, forwards
// resize and input events, and runs the frame loop.
type Window struct {
	cfg      *config.Config
	reloads  <-chan *config.Config
	controls *Controls

	window *glfw.Window
	ctx    *renderer.OpenGLContext
	world  *world.World
}

// NewWindow prepares a window for cfg. Nothing is created until Run.
func NewWindow(cfg *config.Config) *Window {
	return &Window{
		cfg:      cfg,
		controls: NewControls(cfg.Camera),
	}
}

// WatchReloads makes the frame loop apply configs received on ch.
func (win *Window) WatchReloads(ch <-chan *config.Config) {
	win.reloads = ch
}

// Run opens the window and renders until it is closed. It must be called
// from the main goroutine.
func (win *Window) Run() (err error) {
	// GL and glfw calls must stay on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("could not initialize glfw: %w", err)
	}
	var cleanup renderer.Unwind
	defer cleanup.Unwind()
	cleanup.Add(glfw.Terminate)

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	wc := win.cfg.Window
	win.window, err = glfw.CreateWindow(wc.Width, wc.Height, wc.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("could not create glfw window: %w", err)
	}
	cleanup.Add(win.window.Destroy)
	if x, y, ok := wc.Position(); ok {
		win.window.SetPos(x, y)
	}
	styleTitleBar(win.window)

	win.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	win.ctx, err = renderer.NewOpenGLContext()
	if err != nil {
		return err
	}
	cleanup.Add(win.ctx.Cleanup)

	sc := win.cfg.Scene
	win.world = world.New(sc.Path, sc.File, wc.Width, wc.Height, win.ctx,
		world.WithImporter(importerFor(sc)),
		world.WithOverlay(renderer.NewOpenGLText()),
		world.WithLabels(win.cfg.Overlay.ToLabels()))
	win.world.SceneDistance = win.cfg.Camera.Distance
	cleanup.Add(win.world.Dispose)

	if err := win.world.Initialize(win.ctx); err != nil {
		return err
	}

	fbWidth, fbHeight := win.window.GetFramebufferSize()
	win.world.Resize(win.ctx, fbWidth, fbHeight)

	win.window.SetFramebufferSizeCallback(win.framebufferSizeCallback)
	win.window.SetKeyCallback(win.keyCallback)
	win.window.SetMouseButtonCallback(win.mouseButtonCallback)
	win.window.SetCursorPosCallback(win.cursorPosCallback)
	win.window.SetScrollCallback(win.scrollCallback)

	logger.Log.Info("Window opened",
		zap.String("title", wc.Title),
		zap.Int("framebufferWidth", fbWidth),
		zap.Int("framebufferHeight", fbHeight))

	win.renderLoop()
	return nil
}

func (win *Window) renderLoop() {
	for !win.window.ShouldClose() {
		win.applyReloads()

		win.world.Draw(win.ctx)
		scene.ReleaseGarbage()

		win.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// applyReloads takes the newest pending config without blocking the frame.
func (win *Window) applyReloads() {
	if win.reloads == nil {
		return
	}
	select {
	case cfg := <-win.reloads:
		win.cfg = cfg
		win.controls.Apply(cfg.Camera)
		win.world.SetLabels(cfg.Overlay.ToLabels())
		logger.Log.Info("Applied reloaded config", zap.Int("labels", len(cfg.Overlay.Labels)))
	default:
	}
}

func (win *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	win.world.Resize(win.ctx, width, height)
}

func (win *Window) keyCallback(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if win.controls.Key(&win.world.Camera, key, action) {
		w.SetShouldClose(true)
	}
}

func (win *Window) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	x, y := w.GetCursorPos()
	win.controls.MouseButton(button, action, x, y)
}

func (win *Window) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if w.GetAttrib(glfw.Focused) != glfw.True {
		return
	}
	win.controls.CursorMove(&win.world.Camera, xpos, ypos)
}

func (win *Window) scrollCallback(_ *glfw.Window, _, yoff float64) {
	win.controls.Scroll(&win.world.Camera, yoff)
}

func importerFor(sc config.Scene) loader.Importer {
	reg := loader.DefaultRegistry()
	reg[".obj"] = &loader.OBJImporter{RecalculateNormals: sc.RecalculateNormals}
	return reg
}
