package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixStackPushPop(t *testing.T) {
	s := NewMatrixStack()
	s.Translate(1, 2, 3)
	before := s.Top()

	s.Push()
	s.Rotate(45, 0, 1, 0)
	s.Scale(2, 2, 2)
	assert.Equal(t, 1, s.Depth())
	require.True(t, s.Pop())

	assert.Equal(t, before, s.Top())
	assert.False(t, s.Pop(), "base matrix must not be popped")
}

func TestMatrixStackMulOrder(t *testing.T) {
	s := NewMatrixStack()
	s.Translate(10, 0, 0)
	s.Scale(2, 2, 2)

	// Scale applies to the vertex first, then the translation.
	got := s.Top().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, got.ApproxEqual(mgl32.Vec4{12, 0, 0, 1}), "got %v", got)
}

func TestRecorderTracksModes(t *testing.T) {
	r := NewRecorder()
	r.MatrixMode(MatrixProjection)
	r.LoadIdentity()
	r.Perspective(50, 4.0/3.0, 1, 50000)
	r.MatrixMode(MatrixModelView)
	r.LoadIdentity()
	r.Translate(0, 0, -5)

	want := Projection{Fovy: 50, Aspect: 4.0 / 3.0, Near: 1, Far: 50000}.Matrix()
	assert.Equal(t, want, r.ProjectionMatrix())
	assert.Equal(t, mgl32.Translate3D(0, 0, -5), r.ModelView())
}

func TestRecorderUnderflow(t *testing.T) {
	r := NewRecorder()
	r.PopMatrix()
	assert.Equal(t, 1, r.Underflows())
}

func TestRecorderMeshLifetime(t *testing.T) {
	r := NewRecorder()
	mesh := &Mesh{Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Faces: []int32{0, 1, 2}}

	h, err := r.UploadMesh(mesh)
	require.NoError(t, err)
	assert.Equal(t, 1, r.LiveMeshes())

	r.DeleteMesh(h)
	r.DeleteMesh(h)
	assert.Equal(t, 0, r.LiveMeshes())
	assert.Equal(t, 1, r.BadDeletes())
}

func TestRecorderRejectsInvalidMesh(t *testing.T) {
	r := NewRecorder()
	_, err := r.UploadMesh(&Mesh{Vertices: []float32{0, 0, 0}, Faces: []int32{0, 1, 2}})
	assert.Error(t, err)
	assert.Equal(t, 0, r.LiveMeshes())
}

func TestRecorderOpsFilter(t *testing.T) {
	r := NewRecorder()
	r.Clear(ColorBuffer | DepthBuffer)
	r.PushMatrix()
	r.DrawBox()
	r.PopMatrix()
	r.Flush()

	assert.Equal(t, []Op{OpPushMatrix, OpPopMatrix}, r.Ops(OpPushMatrix, OpPopMatrix))
	assert.Len(t, r.Ops(), 5)
	assert.Equal(t, 1, r.Count(OpBox))
	assert.Equal(t, 1, r.MaxDepth())
}

func TestMatrixGuard(t *testing.T) {
	r := NewRecorder()
	g := Push(r)
	r.Translate(1, 1, 1)
	g.Pop()
	g.Pop()

	assert.Equal(t, 1, r.Count(OpPopMatrix))
	assert.Equal(t, mgl32.Ident4(), r.ModelView())
}

func TestWithMatrixRestoresOnPanic(t *testing.T) {
	r := NewRecorder()

	assert.Panics(t, func() {
		WithMatrix(r, func() {
			r.Scale(3, 3, 3)
			panic("context lost")
		})
	})

	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, mgl32.Ident4(), r.ModelView())
}

func TestUnwindRunsInReverse(t *testing.T) {
	var order []int
	var u Unwind
	u.Add(func() { order = append(order, 1) })
	u.Add(func() { order = append(order, 2) })

	u.Unwind()
	u.Unwind()

	assert.Equal(t, []int{2, 1}, order)
}
