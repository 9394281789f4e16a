package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Op names a recorded Context or TextOverlay call.
type Op string

const (
	OpClearColor   Op = "clearColor"
	OpClear        Op = "clear"
	OpEnable       Op = "enable"
	OpShadeModel   Op = "shadeModel"
	OpColor        Op = "color"
	OpMatrixMode   Op = "matrixMode"
	OpLoadIdentity Op = "loadIdentity"
	OpPerspective  Op = "perspective"
	OpViewport     Op = "viewport"
	OpPushMatrix   Op = "pushMatrix"
	OpPopMatrix    Op = "popMatrix"
	OpTranslate    Op = "translate"
	OpRotate       Op = "rotate"
	OpScale        Op = "scale"
	OpBegin        Op = "begin"
	OpVertex       Op = "vertex"
	OpEnd          Op = "end"
	OpBox          Op = "box"
	OpCylinder     Op = "cylinder"
	OpUploadMesh   Op = "uploadMesh"
	OpDrawMesh     Op = "drawMesh"
	OpDeleteMesh   Op = "deleteMesh"
	OpFlush        Op = "flush"
	OpText         Op = "text"
)

type Command struct {
	Op   Op
	Args []float64
	Text string
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString(string(c.Op))
	for _, a := range c.Args {
		fmt.Fprintf(&b, " %g", a)
	}
	if c.Text != "" {
		fmt.Fprintf(&b, " %q", c.Text)
	}
	return b.String()
}

// Recorder is a headless Context and TextOverlay. It keeps every call in
// order and tracks the model-view and projection stacks so callers can check
// the transform state a draw leaves behind.
type Recorder struct {
	Commands []Command

	modelView  *MatrixStack
	projection *MatrixStack
	mode       MatrixMode
	maxDepth   int
	underflows int

	nextMesh   MeshHandle
	meshes     map[MeshHandle]*Mesh
	badDeletes int
}

func NewRecorder() *Recorder {
	return &Recorder{
		modelView:  NewMatrixStack(),
		projection: NewMatrixStack(),
		meshes:     make(map[MeshHandle]*Mesh),
	}
}

func (r *Recorder) record(op Op, args ...float64) {
	r.Commands = append(r.Commands, Command{Op: op, Args: args})
}

func (r *Recorder) current() *MatrixStack {
	if r.mode == MatrixProjection {
		return r.projection
	}
	return r.modelView
}

func (r *Recorder) ClearColor(c Color) {
	r.record(OpClearColor, float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}

func (r *Recorder) Clear(mask ClearMask) {
	r.record(OpClear, float64(mask))
}

func (r *Recorder) Enable(cap Capability) {
	r.record(OpEnable, float64(cap))
}

func (r *Recorder) ShadeModel(mode ShadeMode) {
	r.record(OpShadeModel, float64(mode))
}

func (r *Recorder) Color(c Color) {
	r.record(OpColor, float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}

func (r *Recorder) MatrixMode(mode MatrixMode) {
	r.mode = mode
	r.record(OpMatrixMode, float64(mode))
}

func (r *Recorder) LoadIdentity() {
	r.current().Load(mgl32.Ident4())
	r.record(OpLoadIdentity)
}

func (r *Recorder) Perspective(fovy, aspect, near, far float64) {
	p := Projection{Fovy: fovy, Aspect: aspect, Near: near, Far: far}
	r.current().Mul(p.Matrix())
	r.record(OpPerspective, fovy, aspect, near, far)
}

func (r *Recorder) Viewport(vp Viewport) {
	r.record(OpViewport, float64(vp.X), float64(vp.Y), float64(vp.Width), float64(vp.Height))
}

func (r *Recorder) PushMatrix() {
	s := r.current()
	s.Push()
	if s == r.modelView && s.Depth() > r.maxDepth {
		r.maxDepth = s.Depth()
	}
	r.record(OpPushMatrix)
}

func (r *Recorder) PopMatrix() {
	if !r.current().Pop() {
		r.underflows++
	}
	r.record(OpPopMatrix)
}

func (r *Recorder) Translate(x, y, z float32) {
	r.current().Translate(x, y, z)
	r.record(OpTranslate, float64(x), float64(y), float64(z))
}

func (r *Recorder) Rotate(angle, x, y, z float32) {
	r.current().Rotate(angle, x, y, z)
	r.record(OpRotate, float64(angle), float64(x), float64(y), float64(z))
}

func (r *Recorder) Scale(x, y, z float32) {
	r.current().Scale(x, y, z)
	r.record(OpScale, float64(x), float64(y), float64(z))
}

func (r *Recorder) Begin(p Primitive) {
	r.record(OpBegin, float64(p))
}

func (r *Recorder) Vertex(x, y, z float32) {
	r.record(OpVertex, float64(x), float64(y), float64(z))
}

func (r *Recorder) End() {
	r.record(OpEnd)
}

func (r *Recorder) DrawBox() {
	r.record(OpBox)
}

func (r *Recorder) DrawCylinder(baseRadius, topRadius float32) {
	r.record(OpCylinder, float64(baseRadius), float64(topRadius))
}

func (r *Recorder) UploadMesh(m *Mesh) (MeshHandle, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	r.nextMesh++
	r.meshes[r.nextMesh] = m
	r.record(OpUploadMesh, float64(r.nextMesh), float64(m.TriangleCount()))
	return r.nextMesh, nil
}

func (r *Recorder) DrawMesh(h MeshHandle) {
	r.record(OpDrawMesh, float64(h))
}

func (r *Recorder) DeleteMesh(h MeshHandle) {
	if _, ok := r.meshes[h]; !ok {
		r.badDeletes++
	}
	delete(r.meshes, h)
	r.record(OpDeleteMesh, float64(h))
}

func (r *Recorder) Flush() {
	r.record(OpFlush)
}

func (r *Recorder) DrawText(vp Viewport, l Label) {
	r.Commands = append(r.Commands, Command{
		Op:   OpText,
		Args: []float64{float64(vp.X), float64(vp.Y), float64(vp.Width), float64(vp.Height), float64(l.X), float64(l.Y)},
		Text: l.Text,
	})
}

// Reset drops recorded commands but keeps matrix and mesh state, so a test
// can isolate the commands of a single frame.
func (r *Recorder) Reset() {
	r.Commands = nil
	r.maxDepth = r.modelView.Depth()
}

func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operations, in order, filtered to the given set
// when any are passed.
func (r *Recorder) Ops(filter ...Op) []Op {
	keep := make(map[Op]bool, len(filter))
	for _, op := range filter {
		keep[op] = true
	}
	var ops []Op
	for _, c := range r.Commands {
		if len(filter) == 0 || keep[c.Op] {
			ops = append(ops, c.Op)
		}
	}
	return ops
}

// Find returns the recorded commands with the given op.
func (r *Recorder) Find(op Op) []Command {
	var found []Command
	for _, c := range r.Commands {
		if c.Op == op {
			found = append(found, c)
		}
	}
	return found
}

func (r *Recorder) ModelView() mgl32.Mat4 {
	return r.modelView.Top()
}

func (r *Recorder) ProjectionMatrix() mgl32.Mat4 {
	return r.projection.Top()
}

// Depth is the current model-view stack depth.
func (r *Recorder) Depth() int {
	return r.modelView.Depth()
}

// MaxDepth is the deepest model-view nesting seen since the last Reset.
func (r *Recorder) MaxDepth() int {
	return r.maxDepth
}

func (r *Recorder) Underflows() int {
	return r.underflows
}

// LiveMeshes is the number of uploaded meshes not yet deleted.
func (r *Recorder) LiveMeshes() int {
	return len(r.meshes)
}

// BadDeletes counts deletions of handles that were never uploaded or were
// already deleted.
func (r *Recorder) BadDeletes() int {
	return r.badDeletes
}

// Summary counts recorded commands per op.
func (r *Recorder) Summary() map[Op]int {
	out := make(map[Op]int)
	for _, c := range r.Commands {
		out[c.Op]++
	}
	return out
}
