package renderer

// ClearMask selects the buffers cleared by Context.Clear.
type ClearMask uint32

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

type Capability int

const (
	DepthTest Capability = iota
	CullFace
)

type ShadeMode int

const Flat ShadeMode = 0

type MatrixMode int

const (
	MatrixModelView MatrixMode = iota
	MatrixProjection
)

type Primitive int

const (
	Quads Primitive = iota
	Triangles
)

// MeshHandle identifies geometry uploaded with Context.UploadMesh.
type MeshHandle uint32

type Color struct {
	R, G, B, A float32
}

func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGB8 builds a color from 0-255 channel values.
func RGB8(r, g, b uint8) Color {
	return RGB(float32(r)/255, float32(g)/255, float32(b)/255)
}

type Viewport struct {
	X, Y          int
	Width, Height int
}

// Label is one line of overlay text, positioned in pixels relative to the
// viewport it is drawn into.
type Label struct {
	X, Y  int
	Font  string
	Size  float64
	Color Color
	Text  string
}

// Context is the immediate-mode graphics API the scene is drawn through.
// All calls must happen on the goroutine that owns the underlying context.
type Context interface {
	ClearColor(c Color)
	Clear(mask ClearMask)
	Enable(cap Capability)
	ShadeModel(mode ShadeMode)
	Color(c Color)

	MatrixMode(mode MatrixMode)
	LoadIdentity()
	Perspective(fovy, aspect, near, far float64)
	Viewport(vp Viewport)

	PushMatrix()
	PopMatrix()
	Translate(x, y, z float32)
	Rotate(angle, x, y, z float32)
	Scale(x, y, z float32)

	Begin(p Primitive)
	Vertex(x, y, z float32)
	End()

	// DrawBox renders a solid cube spanning -1..1 on every axis.
	DrawBox()
	// DrawCylinder renders a solid cylinder of height 1 along +Z.
	DrawCylinder(baseRadius, topRadius float32)

	UploadMesh(m *Mesh) (MeshHandle, error)
	DrawMesh(h MeshHandle)
	DeleteMesh(h MeshHandle)

	Flush()
}

// TextOverlay draws 2D text into a sub-region of the surface. Failures are
// not reported back to the caller.
type TextOverlay interface {
	DrawText(vp Viewport, l Label)
}
