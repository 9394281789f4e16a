package renderer

// MatrixGuard restores the transform saved by Push. Pop is idempotent so it
// can be deferred and also called early.
type MatrixGuard struct {
	ctx    Context
	popped bool
}

// Push saves the current transform and returns the guard that restores it.
//
//	defer renderer.Push(ctx).Pop()
func Push(ctx Context) *MatrixGuard {
	ctx.PushMatrix()
	return &MatrixGuard{ctx: ctx}
}

func (g *MatrixGuard) Pop() {
	if g.popped {
		return
	}
	g.popped = true
	g.ctx.PopMatrix()
}

// WithMatrix runs fn between a save and a restore of the current transform.
// The restore happens even if fn panics.
func WithMatrix(ctx Context, fn func()) {
	defer Push(ctx).Pop()
	fn()
}
