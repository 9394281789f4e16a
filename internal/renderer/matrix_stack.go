package renderer

import "github.com/go-gl/mathgl/mgl32"

// MatrixStack mirrors a fixed-function matrix stack on the CPU. The bottom
// entry is never popped.
type MatrixStack struct {
	stack []mgl32.Mat4
}

func NewMatrixStack() *MatrixStack {
	return &MatrixStack{stack: []mgl32.Mat4{mgl32.Ident4()}}
}

func (s *MatrixStack) Top() mgl32.Mat4 {
	return s.stack[len(s.stack)-1]
}

// Depth is the number of saved entries above the base matrix.
func (s *MatrixStack) Depth() int {
	return len(s.stack) - 1
}

func (s *MatrixStack) Push() {
	s.stack = append(s.stack, s.Top())
}

// Pop discards the top entry. It reports false on underflow and leaves the
// stack untouched, like GL_STACK_UNDERFLOW.
func (s *MatrixStack) Pop() bool {
	if len(s.stack) == 1 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

func (s *MatrixStack) Load(m mgl32.Mat4) {
	s.stack[len(s.stack)-1] = m
}

// Mul post-multiplies the top entry, so m applies to vertices first.
func (s *MatrixStack) Mul(m mgl32.Mat4) {
	s.Load(s.Top().Mul4(m))
}

func (s *MatrixStack) Translate(x, y, z float32) {
	s.Mul(mgl32.Translate3D(x, y, z))
}

func (s *MatrixStack) Rotate(angle, x, y, z float32) {
	axis := mgl32.Vec3{x, y, z}
	if axis.Len() == 0 {
		return
	}
	s.Mul(mgl32.HomogRotate3D(mgl32.DegToRad(angle), axis.Normalize()))
}

func (s *MatrixStack) Scale(x, y, z float32) {
	s.Mul(mgl32.Scale3D(x, y, z))
}
