package scene

import (
	"sync"

	"SiteViewer/internal/logger"

	"go.uber.org/zap"
)

// Disposer is anything holding GPU resources that must be freed on the
// graphics thread.
type Disposer interface {
	Dispose()
}

type garbage struct {
	sync.Mutex
	pending []Disposer
}

// Finalizers run on the GC goroutine, where no GL context is current, so
// they only enqueue here. ReleaseGarbage frees the queue on the GL thread.
var trashbin garbage

// Discard queues d for release at the next ReleaseGarbage call. It is safe
// to call from any goroutine.
func Discard(d Disposer) {
	trashbin.Lock()
	trashbin.pending = append(trashbin.pending, d)
	trashbin.Unlock()
}

// ReleaseGarbage disposes everything queued by Discard. Call it from the
// goroutine that owns the graphics context, e.g. once per frame.
func ReleaseGarbage() int {
	trashbin.Lock()
	pending := trashbin.pending
	trashbin.pending = nil
	trashbin.Unlock()

	for _, d := range pending {
		d.Dispose()
	}
	if len(pending) > 0 {
		logger.Log.Warn("Released resources that were never disposed explicitly", zap.Int("count", len(pending)))
	}
	return len(pending)
}
