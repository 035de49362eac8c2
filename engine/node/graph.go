package node

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultParallelThreshold is the number of root children at which Snapshot flattens subtrees on the worker pool.
const DefaultParallelThreshold = 64

// Item is a world-space view of one visible node carrying geometry, captured by Snapshot.
type Item struct {
	Node     Node
	World    mgl32.Mat4
	Geometry *geometry.Geometry
	Color    mgl32.Vec3
	Emissive float32
}

// Hit is one ray intersection reported by Intersect.
type Hit struct {
	Node     Node
	Distance float32
	Point    mgl32.Vec3
}

type graphImpl struct {
	mu *sync.Mutex

	root Node

	pool              worker.DynamicWorkerPool
	workers           int
	parallelThreshold int
}

// Graph is the scene graph: a root group plus whole-graph queries used by the renderer and the picker.
// Entities mutate the graph concurrently with rendering; queries see a best-effort snapshot.
type Graph interface {
	// Root returns the root group node.
	//
	// Returns:
	//   - Node: the root
	Root() Node

	// Add appends nodes to the root.
	//
	// Parameters:
	//   - nodes: the nodes to add
	Add(nodes ...Node)

	// Remove detaches a direct child of the root.
	//
	// Parameters:
	//   - n: the node to remove
	//
	// Returns:
	//   - bool: true if the node was removed
	Remove(n Node) bool

	// Traverse visits every node depth-first starting at the root.
	//
	// Parameters:
	//   - fn: the visitor; returning false skips the subtree
	Traverse(fn func(Node) bool)

	// Snapshot flattens every visible node with geometry into world-space draw items, in traversal order.
	// Hidden nodes hide their whole subtree. Large graphs are flattened per root child on the worker pool.
	//
	// Returns:
	//   - []Item: the draw items
	Snapshot() []Item

	// Intersect casts a world-space ray against every visible mesh in the graph, recursing through groups,
	// and returns the hits sorted nearest first.
	//
	// Parameters:
	//   - ray: the world-space ray
	//
	// Returns:
	//   - []Hit: the hits, nearest first
	Intersect(ray geometry.Ray) []Hit

	// Close stops the worker pool.
	Close()
}

var _ Graph = &graphImpl{}

// NewGraph creates an empty scene graph.
//
// Parameters:
//   - options: functional options to configure the graph
//
// Returns:
//   - Graph: the newly created graph
func NewGraph(options ...GraphBuilderOption) Graph {
	g := &graphImpl{
		mu:                &sync.Mutex{},
		root:              NewNode(WithName("root")),
		workers:           max(runtime.NumCPU()-1, 1),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *graphImpl) Root() Node {
	return g.root
}

func (g *graphImpl) Add(nodes ...Node) {
	g.root.Add(nodes...)
}

func (g *graphImpl) Remove(n Node) bool {
	return g.root.Remove(n)
}

func (g *graphImpl) Traverse(fn func(Node) bool) {
	g.root.Traverse(fn)
}

func (g *graphImpl) Snapshot() []Item {
	children := g.root.Children()
	if !g.root.Visible() {
		return nil
	}
	rootWorld := g.root.LocalMatrix()

	if len(children) < g.parallelThreshold {
		var items []Item
		for _, c := range children {
			items = flatten(c, rootWorld, items)
		}
		return items
	}

	pool := g.workerPool()

	// Per-subtree buffers keep traversal order. pool.Wait blocks until workers idle-exit, so the barrier is a WaitGroup.
	parts := make([][]Item, len(children))
	var wg sync.WaitGroup
	for i, c := range children {
		wg.Add(1)
		idx, child := i, c
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				parts[idx] = flatten(child, rootWorld, nil)
				return nil, nil
			},
		})
	}
	wg.Wait()

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	items := make([]Item, 0, total)
	for _, p := range parts {
		items = append(items, p...)
	}
	return items
}

func (g *graphImpl) Intersect(ray geometry.Ray) []Hit {
	var hits []Hit
	var walk func(n Node, parentWorld mgl32.Mat4)
	walk = func(n Node, parentWorld mgl32.Mat4) {
		if !n.Visible() {
			return
		}
		world := parentWorld.Mul4(n.LocalMatrix())
		if geom := n.Geometry(); geom != nil {
			if hit, ok := intersectMesh(ray, n, geom, world); ok {
				hits = append(hits, hit)
			}
		}
		for _, c := range n.Children() {
			walk(c, world)
		}
	}
	walk(g.root, mgl32.Ident4())

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

func (g *graphImpl) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		g.pool.Stop()
		g.pool = nil
	}
}

// workerPool lazily creates the pool so small graphs never start workers.
func (g *graphImpl) workerPool() worker.DynamicWorkerPool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool == nil {
		g.pool = worker.NewDynamicWorkerPool(g.workers, 256, 1*time.Second)
	}
	return g.pool
}

func flatten(n Node, parentWorld mgl32.Mat4, items []Item) []Item {
	if !n.Visible() {
		return items
	}
	world := parentWorld.Mul4(n.LocalMatrix())
	if geom := n.Geometry(); geom != nil {
		items = append(items, Item{
			Node:     n,
			World:    world,
			Geometry: geom,
			Color:    n.Color(),
			Emissive: n.Emissive(),
		})
	}
	for _, c := range n.Children() {
		items = flatten(c, world, items)
	}
	return items
}

func intersectMesh(ray geometry.Ray, n Node, geom *geometry.Geometry, world mgl32.Mat4) (Hit, bool) {
	bmin, bmax := geom.Bounds()
	wmin, wmax := geometry.TransformAABB(bmin, bmax, world)
	if _, ok := ray.IntersectAABB(wmin, wmax); !ok {
		return Hit{}, false
	}
	if world.Det() == 0 {
		return Hit{}, false
	}
	t, ok := geom.Raycast(ray.Transform(world.Inv()))
	if !ok {
		return Hit{}, false
	}
	return Hit{Node: n, Distance: t, Point: ray.At(t)}, true
}
