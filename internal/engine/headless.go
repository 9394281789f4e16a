package engine

import (
	"SiteViewer/internal/config"
	"SiteViewer/internal/logger"
	"SiteViewer/internal/renderer"
	"SiteViewer/internal/world"

	"go.uber.org/zap"
)

// RunHeadless renders frames into a command recorder instead of a window,
// turning the camera by one rotation step per frame. It returns the
// recorder holding the last frame.
func RunHeadless(cfg *config.Config, frames int) (*renderer.Recorder, error) {
	rec := renderer.NewRecorder()
	w := world.New(cfg.Scene.Path, cfg.Scene.File, cfg.Window.Width, cfg.Window.Height, rec,
		world.WithImporter(importerFor(cfg.Scene)),
		world.WithLabels(cfg.Overlay.ToLabels()))
	defer w.Dispose()
	w.SceneDistance = cfg.Camera.Distance

	if err := w.Initialize(rec); err != nil {
		return nil, err
	}
	w.Resize(rec, cfg.Window.Width, cfg.Window.Height)

	for frame := 0; frame < frames; frame++ {
		rec.Reset()
		w.Draw(rec)
		w.RotationY += cfg.Camera.RotationStep

		summary := rec.Summary()
		logger.Log.Info("Frame recorded",
			zap.Int("frame", frame),
			zap.Int("commands", len(rec.Commands)),
			zap.Int("boxes", summary[renderer.OpBox]),
			zap.Int("cylinders", summary[renderer.OpCylinder]),
			zap.Int("meshDraws", summary[renderer.OpDrawMesh]),
			zap.Int("maxDepth", rec.MaxDepth()))
	}
	return rec, nil
}
