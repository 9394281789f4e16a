package renderer

import (
	"fmt"
	"math"

	"SiteViewer/internal/logger"

	"github.com/go-gl/gl/v2.1/gl"
	"go.uber.org/zap"
)

const DefaultCylinderSlices = 24

// OpenGLContext implements Context on the fixed-function OpenGL 2.1 pipeline.
// Solid shapes are compiled into display lists the first time they are drawn.
type OpenGLContext struct {
	CylinderSlices int
	lists          *ListCache
	meshes         map[MeshHandle]bool
}

// NewOpenGLContext loads the GL entry points for the context current on the
// calling thread.
func NewOpenGLContext() (*OpenGLContext, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL context ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	return &OpenGLContext{
		CylinderSlices: DefaultCylinderSlices,
		lists:          NewListCache(glListCompiler{}),
		meshes:         make(map[MeshHandle]bool),
	}, nil
}

type glListCompiler struct{}

func (glListCompiler) Compile(build func()) uint32 {
	id := gl.GenLists(1)
	gl.NewList(id, gl.COMPILE)
	build()
	gl.EndList()
	return id
}

func (glListCompiler) Delete(id uint32) {
	gl.DeleteLists(id, 1)
}

func (c *OpenGLContext) ClearColor(col Color) {
	gl.ClearColor(col.R, col.G, col.B, col.A)
}

func (c *OpenGLContext) Clear(mask ClearMask) {
	var bits uint32
	if mask&ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (c *OpenGLContext) Enable(cap Capability) {
	switch cap {
	case DepthTest:
		gl.Enable(gl.DEPTH_TEST)
	case CullFace:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}
}

func (c *OpenGLContext) ShadeModel(mode ShadeMode) {
	switch mode {
	case Flat:
		gl.ShadeModel(gl.FLAT)
	default:
		gl.ShadeModel(gl.SMOOTH)
	}
}

func (c *OpenGLContext) Color(col Color) {
	gl.Color4f(col.R, col.G, col.B, col.A)
}

func (c *OpenGLContext) MatrixMode(mode MatrixMode) {
	if mode == MatrixProjection {
		gl.MatrixMode(gl.PROJECTION)
		return
	}
	gl.MatrixMode(gl.MODELVIEW)
}

func (c *OpenGLContext) LoadIdentity() {
	gl.LoadIdentity()
}

// Perspective multiplies a gluPerspective-style matrix onto the current one.
func (c *OpenGLContext) Perspective(fovy, aspect, near, far float64) {
	m := Projection{Fovy: fovy, Aspect: aspect, Near: near, Far: far}.Matrix()
	gl.MultMatrixf(&m[0])
}

func (c *OpenGLContext) Viewport(vp Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
}

func (c *OpenGLContext) PushMatrix() { gl.PushMatrix() }
func (c *OpenGLContext) PopMatrix()  { gl.PopMatrix() }

func (c *OpenGLContext) Translate(x, y, z float32) {
	gl.Translatef(x, y, z)
}

func (c *OpenGLContext) Rotate(angle, x, y, z float32) {
	gl.Rotatef(angle, x, y, z)
}

func (c *OpenGLContext) Scale(x, y, z float32) {
	gl.Scalef(x, y, z)
}

func (c *OpenGLContext) Begin(p Primitive) {
	if p == Triangles {
		gl.Begin(gl.TRIANGLES)
		return
	}
	gl.Begin(gl.QUADS)
}

func (c *OpenGLContext) Vertex(x, y, z float32) {
	gl.Vertex3f(x, y, z)
}

func (c *OpenGLContext) End() {
	gl.End()
}

func (c *OpenGLContext) DrawBox() {
	gl.CallList(c.lists.Get("box", emitBox))
}

func (c *OpenGLContext) DrawCylinder(baseRadius, topRadius float32) {
	slices := c.CylinderSlices
	if slices < 3 {
		slices = DefaultCylinderSlices
	}
	name := fmt.Sprintf("cylinder:%g:%g:%d", baseRadius, topRadius, slices)
	gl.CallList(c.lists.Get(name, func() { emitCylinder(baseRadius, topRadius, slices) }))
}

func (c *OpenGLContext) UploadMesh(m *Mesh) (MeshHandle, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	id := glListCompiler{}.Compile(func() { emitMesh(m) })
	if id == 0 {
		return 0, fmt.Errorf("mesh %q: glGenLists failed (error 0x%x)", m.Name, gl.GetError())
	}
	h := MeshHandle(id)
	c.meshes[h] = true
	return h, nil
}

func (c *OpenGLContext) DrawMesh(h MeshHandle) {
	if c.meshes[h] {
		gl.CallList(uint32(h))
	}
}

func (c *OpenGLContext) DeleteMesh(h MeshHandle) {
	if !c.meshes[h] {
		logger.Log.Warn("Deleting unknown mesh", zap.Uint32("handle", uint32(h)))
		return
	}
	delete(c.meshes, h)
	glListCompiler{}.Delete(uint32(h))
}

func (c *OpenGLContext) Flush() {
	gl.Flush()
}

// Cleanup releases the cached shape lists. Meshes belong to their owners.
func (c *OpenGLContext) Cleanup() {
	logger.Log.Debug("Releasing display lists", zap.Int("lists", c.lists.Len()))
	c.lists.Clear()
}

var boxFaces = [6]struct {
	normal [3]float32
	verts  [4][3]float32
}{
	{[3]float32{1, 0, 0}, [4][3]float32{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}}},
	{[3]float32{-1, 0, 0}, [4][3]float32{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{[3]float32{0, 1, 0}, [4][3]float32{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}}},
	{[3]float32{0, -1, 0}, [4][3]float32{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	{[3]float32{0, 0, 1}, [4][3]float32{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{[3]float32{0, 0, -1}, [4][3]float32{{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, {1, -1, -1}}},
}

// emitBox draws the -1..1 cube with counter-clockwise outward faces.
func emitBox() {
	gl.Begin(gl.QUADS)
	for _, f := range boxFaces {
		gl.Normal3f(f.normal[0], f.normal[1], f.normal[2])
		for _, v := range f.verts {
			gl.Vertex3f(v[0], v[1], v[2])
		}
	}
	gl.End()
}

// emitCylinder draws a capped cylinder from z=0 (base) to z=1 (top), the
// same frame a GLU quadric cylinder uses.
func emitCylinder(base, top float32, slices int) {
	step := 2 * math.Pi / float64(slices)
	point := func(i int, r float32) (float32, float32) {
		a := step * float64(i)
		return r * float32(math.Cos(a)), r * float32(math.Sin(a))
	}

	gl.Begin(gl.QUADS)
	for i := 0; i < slices; i++ {
		a := step * (float64(i) + 0.5)
		gl.Normal3f(float32(math.Cos(a)), float32(math.Sin(a)), 0)
		bx0, by0 := point(i, base)
		bx1, by1 := point(i+1, base)
		tx0, ty0 := point(i, top)
		tx1, ty1 := point(i+1, top)
		gl.Vertex3f(bx0, by0, 0)
		gl.Vertex3f(bx1, by1, 0)
		gl.Vertex3f(tx1, ty1, 1)
		gl.Vertex3f(tx0, ty0, 1)
	}
	gl.End()

	if base > 0 {
		gl.Begin(gl.TRIANGLE_FAN)
		gl.Normal3f(0, 0, -1)
		gl.Vertex3f(0, 0, 0)
		for i := slices; i >= 0; i-- {
			x, y := point(i, base)
			gl.Vertex3f(x, y, 0)
		}
		gl.End()
	}
	if top > 0 {
		gl.Begin(gl.TRIANGLE_FAN)
		gl.Normal3f(0, 0, 1)
		gl.Vertex3f(0, 0, 1)
		for i := 0; i <= slices; i++ {
			x, y := point(i, top)
			gl.Vertex3f(x, y, 1)
		}
		gl.End()
	}
}

func emitMesh(m *Mesh) {
	for _, group := range m.Groups() {
		mat := group.Material
		if mat == nil {
			mat = DefaultMaterial
		}
		gl.Color4f(mat.DiffuseColor[0], mat.DiffuseColor[1], mat.DiffuseColor[2], mat.Alpha)
		gl.Begin(gl.TRIANGLES)
		for _, idx := range m.Faces[group.IndexStart : group.IndexStart+group.IndexCount] {
			n := m.Normal(idx)
			v := m.Vertex(idx)
			gl.Normal3f(n[0], n[1], n[2])
			gl.Vertex3f(v[0], v[1], v[2])
		}
		gl.End()
	}
}
