package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"SiteViewer/internal/loader"
	"SiteViewer/internal/logger"
	"SiteViewer/internal/renderer"

	"go.uber.org/zap"
)

// ErrNotLoaded is returned by Initialize when LoadScene has not succeeded.
var ErrNotLoaded = errors.New("scene not loaded")

// ErrDisposed is returned by LoadScene and Initialize after Dispose.
var ErrDisposed = errors.New("scene disposed")

// AssetError reports a failure to import the scene file. It unwraps to the
// underlying cause, so errors.Is(err, fs.ErrNotExist) works for missing files.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("load scene %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// ImportedScene owns one imported asset and the GPU resources built from it.
type ImportedScene struct {
	dir      string
	fileName string
	ctx      renderer.Context
	importer loader.Importer

	mesh     *renderer.Mesh
	handle   renderer.MeshHandle
	uploaded bool
	disposed bool
}

// New prepares a scene for dir/fileName. Nothing is read until LoadScene.
// A nil importer selects loader.DefaultRegistry.
func New(dir, fileName string, ctx renderer.Context, importer loader.Importer) *ImportedScene {
	if importer == nil {
		importer = loader.DefaultRegistry()
	}
	return &ImportedScene{
		dir:      dir,
		fileName: fileName,
		ctx:      ctx,
		importer: importer,
	}
}

func (s *ImportedScene) Path() string {
	return filepath.Join(s.dir, s.fileName)
}

// Mesh returns the imported geometry, or nil before LoadScene succeeds.
func (s *ImportedScene) Mesh() *renderer.Mesh {
	return s.mesh
}

func (s *ImportedScene) LoadScene() error {
	if s.disposed {
		return ErrDisposed
	}
	mesh, err := s.importer.Import(s.Path())
	if err != nil {
		return &AssetError{Path: s.Path(), Err: err}
	}
	s.mesh = mesh
	return nil
}

// Initialize uploads the loaded geometry. Calling it again is a no-op.
func (s *ImportedScene) Initialize() error {
	if s.disposed {
		return ErrDisposed
	}
	if s.uploaded {
		return nil
	}
	if s.mesh == nil {
		return ErrNotLoaded
	}
	h, err := s.ctx.UploadMesh(s.mesh)
	if err != nil {
		return fmt.Errorf("upload %s: %w", s.Path(), err)
	}
	s.handle = h
	s.uploaded = true
	return nil
}

// Draw emits the model under the current transform.
func (s *ImportedScene) Draw() {
	if !s.uploaded {
		return
	}
	s.ctx.DrawMesh(s.handle)
}

// Dispose releases the uploaded geometry. It is safe to call repeatedly.
func (s *ImportedScene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.uploaded {
		s.ctx.DeleteMesh(s.handle)
		s.uploaded = false
	}
	s.mesh = nil
	logger.Log.Debug("Scene disposed", zap.String("path", s.Path()))
}
