package renderer

// ListCompiler records geometry into a reusable GPU-side list.
type ListCompiler interface {
	Compile(build func()) uint32
	Delete(id uint32)
}

// ListCache compiles each named shape once, the first time it is drawn in a
// context, and reuses the list afterwards.
type ListCache struct {
	lists    map[string]uint32
	compiler ListCompiler
}

func NewListCache(compiler ListCompiler) *ListCache {
	return &ListCache{
		lists:    make(map[string]uint32),
		compiler: compiler,
	}
}

// Get returns the cached list for name, compiling it with build on a miss.
func (lc *ListCache) Get(name string, build func()) uint32 {
	if id, exists := lc.lists[name]; exists {
		return id
	}

	id := lc.compiler.Compile(build)
	lc.lists[name] = id
	return id
}

func (lc *ListCache) Len() int {
	return len(lc.lists)
}

// Clear deletes every compiled list (call before the context is destroyed)
func (lc *ListCache) Clear() {
	for _, id := range lc.lists {
		lc.compiler.Delete(id)
	}
	lc.lists = make(map[string]uint32)
}
