package world

import (
	"io/fs"
	"math"
	"runtime"
	"testing"
	"time"

	"SiteViewer/internal/renderer"
	"SiteViewer/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImporter struct{}

func (stubImporter) Import(path string) (*renderer.Mesh, error) {
	return &renderer.Mesh{
		Name:     "truck",
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Faces:    []int32{0, 1, 2},
		MaterialGroups: []renderer.MaterialGroup{
			{Material: renderer.DefaultMaterial, IndexStart: 0, IndexCount: 3},
		},
	}, nil
}

var testLabels = []renderer.Label{
	{X: 0, Y: 200, Text: "first"},
	{X: 0, Y: 165, Text: "second"},
}

// newTestWorld returns an initialized and resized World drawing into rec.
func newTestWorld(t *testing.T, width, height int) (*World, *renderer.Recorder) {
	t.Helper()
	rec := renderer.NewRecorder()
	w := New("assets", "truck.obj", width, height, rec,
		WithImporter(stubImporter{}),
		WithLabels(testLabels))
	t.Cleanup(w.Dispose)

	require.NoError(t, w.Initialize(rec))
	w.Resize(rec, width, height)
	rec.Reset()
	return w, rec
}

// depths returns the model-view nesting depth at each occurrence of op.
func depths(rec *renderer.Recorder, op renderer.Op) []int {
	var out []int
	depth := 0
	for _, c := range rec.Commands {
		switch c.Op {
		case renderer.OpPushMatrix:
			depth++
		case renderer.OpPopMatrix:
			depth--
		case op:
			out = append(out, depth)
		}
	}
	return out
}

func TestInitializeSetsRenderState(t *testing.T) {
	rec := renderer.NewRecorder()
	w := New("assets", "truck.obj", 800, 600, rec, WithImporter(stubImporter{}))
	defer w.Dispose()

	require.NoError(t, w.Initialize(rec))

	assert.Equal(t, []renderer.Op{
		renderer.OpClearColor,
		renderer.OpColor,
		renderer.OpEnable,
		renderer.OpEnable,
		renderer.OpShadeModel,
		renderer.OpUploadMesh,
	}, rec.Ops())

	assert.Equal(t, []float64{0, 0, 0, 1}, rec.Find(renderer.OpClearColor)[0].Args)
	assert.Equal(t, []float64{1, 0, 0, 1}, rec.Find(renderer.OpColor)[0].Args)

	enabled := rec.Find(renderer.OpEnable)
	assert.Equal(t, float64(renderer.DepthTest), enabled[0].Args[0])
	assert.Equal(t, float64(renderer.CullFace), enabled[1].Args[0])
	assert.Equal(t, float64(renderer.Flat), rec.Find(renderer.OpShadeModel)[0].Args[0])
}

func TestInitializeMissingAsset(t *testing.T) {
	rec := renderer.NewRecorder()
	w := New(t.TempDir(), "truck.obj", 800, 600, rec)
	defer w.Dispose()

	err := w.Initialize(rec)
	require.Error(t, err)

	var assetErr *scene.AssetError
	assert.ErrorAs(t, err, &assetErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "initialize world")
	assert.Equal(t, 0, rec.Count(renderer.OpUploadMesh))
}

func TestResizeAspectIsExact(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)

	for _, size := range [][2]int{{800, 600}, {1024, 768}, {1920, 1080}, {7, 3}, {1, 1000}} {
		rec.Reset()
		w.Resize(rec, size[0], size[1])

		want := float64(size[0]) / float64(size[1])
		assert.Equal(t, want, w.Projection().Aspect, "size %v", size)
		assert.Equal(t, size[0], w.Width())
		assert.Equal(t, size[1], w.Height())

		p := rec.Find(renderer.OpPerspective)
		require.Len(t, p, 1)
		assert.Equal(t, []float64{50, want, 1, 50000}, p[0].Args)
	}
}

func TestResizeCommandOrder(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)

	w.Resize(rec, 640, 480)

	assert.Equal(t, []renderer.Op{
		renderer.OpMatrixMode,
		renderer.OpLoadIdentity,
		renderer.OpPerspective,
		renderer.OpViewport,
		renderer.OpMatrixMode,
		renderer.OpLoadIdentity,
	}, rec.Ops())

	modes := rec.Find(renderer.OpMatrixMode)
	assert.Equal(t, float64(renderer.MatrixProjection), modes[0].Args[0])
	assert.Equal(t, float64(renderer.MatrixModelView), modes[1].Args[0])
	assert.Equal(t, []float64{0, 0, 640, 480}, rec.Find(renderer.OpViewport)[0].Args)
	assert.Equal(t, renderer.Projection{Fovy: 50, Aspect: 640.0 / 480.0, Near: 1, Far: 50000}, w.Projection())
}

func TestResizeZeroHeight(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)

	assert.NotPanics(t, func() { w.Resize(rec, 800, 0) })

	aspect := w.Projection().Aspect
	assert.False(t, math.IsInf(aspect, 0) || math.IsNaN(aspect), "aspect %v", aspect)
	assert.Equal(t, 800.0, aspect)
	assert.Equal(t, 1, w.Height())

	assert.NotPanics(t, func() { w.Draw(rec) })
}

func TestDisposeTwice(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)
	require.Equal(t, 1, rec.LiveMeshes())

	w.Dispose()
	assert.NotPanics(t, w.Dispose)

	assert.Equal(t, 1, rec.Count(renderer.OpDeleteMesh))
	assert.Equal(t, 0, rec.LiveMeshes())
	assert.Equal(t, 0, rec.BadDeletes())
}

func TestDrawRestoresTransform(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)
	w.RotationX = 30
	w.RotationY = -45
	w.SceneDistance = 1234

	before := rec.ModelView()
	depth := rec.Depth()

	w.Draw(rec)

	assert.Equal(t, rec.Count(renderer.OpPushMatrix), rec.Count(renderer.OpPopMatrix))
	assert.Equal(t, depth, rec.Depth())
	assert.Equal(t, 0, rec.Underflows())
	assert.Equal(t, before, rec.ModelView())
	assert.Equal(t, 2, rec.MaxDepth())
}

func TestDrawIsReproducible(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)
	w.RotationX = 12.5
	w.RotationY = 400

	w.Draw(rec)
	first := append([]renderer.Command(nil), rec.Commands...)
	rec.Reset()
	w.Draw(rec)

	assert.Equal(t, first, rec.Commands)
}

func TestDrawEndToEnd(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)

	w.Draw(rec)

	ops := rec.Ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, renderer.OpClear, ops[0])
	assert.Equal(t, renderer.OpFlush, ops[len(ops)-1])
	assert.Equal(t, 1, rec.Count(renderer.OpClear))
	assert.Equal(t, 1, rec.Count(renderer.OpFlush))

	clear := rec.Find(renderer.OpClear)[0]
	assert.Equal(t, float64(renderer.ColorBuffer|renderer.DepthBuffer), clear.Args[0])

	viewports := rec.Find(renderer.OpViewport)
	require.Len(t, viewports, 2)
	assert.Equal(t, []float64{0, 0, 800, 600}, viewports[0].Args)
	assert.Equal(t, []float64{640, 0, 160, 300}, viewports[1].Args)

	// One model draw, inside the world frame and its own placement.
	assert.Equal(t, []int{2}, depths(rec, renderer.OpDrawMesh))

	// Walls and ramp posts are boxes, the rail is the only cylinder.
	assert.Equal(t, 5, Count(KindWall))
	assert.Equal(t, 2, Count(KindRampPost))
	assert.Equal(t, []int{2, 2, 2, 2, 2, 2, 2}, depths(rec, renderer.OpBox))
	assert.Equal(t, []int{2}, depths(rec, renderer.OpCylinder))
	assert.InDeltaSlice(t, []float64{0.3, 0.3}, rec.Find(renderer.OpCylinder)[0].Args, 1e-6)

	// Ground plus two road strips.
	assert.Equal(t, 3, rec.Count(renderer.OpBegin))
	assert.Equal(t, 12, rec.Count(renderer.OpVertex))

	assert.Equal(t, []renderer.Op{
		renderer.OpClear,
		renderer.OpViewport,
		renderer.OpDrawMesh,
		renderer.OpBox, renderer.OpBox, renderer.OpBox, renderer.OpBox, renderer.OpBox,
		renderer.OpBox, renderer.OpBox,
		renderer.OpCylinder,
		renderer.OpViewport,
		renderer.OpText, renderer.OpText,
		renderer.OpFlush,
	}, rec.Ops(renderer.OpClear, renderer.OpViewport, renderer.OpDrawMesh,
		renderer.OpBox, renderer.OpCylinder, renderer.OpText, renderer.OpFlush))
}

func TestDrawWorldFrame(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)
	w.SceneDistance = 5000
	w.RotationX = 20
	w.RotationY = 70

	w.Draw(rec)

	// The world frame is the first transform after the first push.
	ops := rec.Commands
	var i int
	for i = range ops {
		if ops[i].Op == renderer.OpPushMatrix {
			break
		}
	}
	require.Less(t, i+3, len(ops))
	assert.Equal(t, renderer.Command{Op: renderer.OpTranslate, Args: []float64{0, 0, -5000}}, ops[i+1])
	assert.Equal(t, renderer.Command{Op: renderer.OpRotate, Args: []float64{20, 1, 0, 0}}, ops[i+2])
	assert.Equal(t, renderer.Command{Op: renderer.OpRotate, Args: []float64{70, 0, 1, 0}}, ops[i+3])

	// Then the model placement.
	require.Less(t, i+7, len(ops))
	assert.Equal(t, renderer.OpPushMatrix, ops[i+4].Op)
	assert.Equal(t, []float64{-3500, 0, 3000}, ops[i+5].Args)
	assert.Equal(t, renderer.OpScale, ops[i+6].Op)
	assert.InDelta(t, 0.01, ops[i+6].Args[0], 1e-6)
	assert.Equal(t, []float64{180, 0, 1, 0}, ops[i+7].Args)
}

func TestRotationIsNotAccumulated(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)
	w.RotationX = 90
	w.RotationY = 90

	for frame := 0; frame < 2; frame++ {
		rec.Reset()
		w.Draw(rec)

		rotations := rec.Find(renderer.OpRotate)
		require.GreaterOrEqual(t, len(rotations), 2)
		assert.Equal(t, []float64{90, 1, 0, 0}, rotations[0].Args, "frame %d", frame)
		assert.Equal(t, []float64{90, 0, 1, 0}, rotations[1].Args, "frame %d", frame)
	}
}

func TestEnvironmentPlacementsApplied(t *testing.T) {
	w, rec := newTestWorld(t, 800, 600)

	w.Draw(rec)

	var want [][]float64
	for _, p := range Environment() {
		if p.Shape == ShapeQuads {
			continue
		}
		want = append(want, []float64{float64(p.Translate[0]), float64(p.Translate[1]), float64(p.Translate[2])})
	}

	var got [][]float64
	for _, c := range rec.Find(renderer.OpTranslate) {
		got = append(got, c.Args)
	}
	// The first two translates are the world frame and the model.
	require.Len(t, got, len(want)+2)
	assert.Equal(t, want, got[2:])

	assert.Equal(t, []float64{4400, -1000, 0}, want[0])
	assert.Equal(t, []float64{3200, -1400, -4200}, want[len(want)-1])
}

func TestEnvironmentReturnsCopy(t *testing.T) {
	env := Environment()
	env[0].Quads[0][0][1] = 42
	env[2].Translate[0] = 42

	fresh := Environment()
	assert.Equal(t, float32(groundLevel), fresh[0].Quads[0][0][1])
	assert.Equal(t, float32(4400), fresh[2].Translate[0])
}

func TestOverlayLabels(t *testing.T) {
	w, rec := newTestWorld(t, 1000, 800)

	w.Draw(rec)
	texts := rec.Find(renderer.OpText)
	require.Len(t, texts, 2)
	assert.Equal(t, "first", texts[0].Text)
	assert.Equal(t, []float64{800, 0, 200, 400, 0, 200}, texts[0].Args)

	w.SetLabels([]renderer.Label{{X: 5, Y: 60, Text: "only"}})
	rec.Reset()
	w.Draw(rec)
	texts = rec.Find(renderer.OpText)
	require.Len(t, texts, 1)
	assert.Equal(t, "only", texts[0].Text)
}

func TestExplicitOverlay(t *testing.T) {
	rec := renderer.NewRecorder()
	text := renderer.NewRecorder()
	w := New("assets", "truck.obj", 800, 600, rec,
		WithImporter(stubImporter{}),
		WithOverlay(text),
		WithLabels(testLabels))
	defer w.Dispose()
	require.NoError(t, w.Initialize(rec))
	w.Resize(rec, 800, 600)

	w.Draw(rec)

	assert.Equal(t, 0, rec.Count(renderer.OpText))
	assert.Equal(t, 2, text.Count(renderer.OpText))
}

func TestFinalizerQueuesScene(t *testing.T) {
	rec := renderer.NewRecorder()
	func() {
		w := New("assets", "truck.obj", 800, 600, rec, WithImporter(stubImporter{}))
		require.NoError(t, w.Initialize(rec))
	}()
	require.Equal(t, 1, rec.LiveMeshes())

	assert.Eventually(t, func() bool {
		runtime.GC()
		scene.ReleaseGarbage()
		return rec.LiveMeshes() == 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, rec.BadDeletes())
}
