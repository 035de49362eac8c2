package node

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeHierarchy(t *testing.T) {
	parent := NewNode(WithName("parent"))
	child := NewNode(WithName("child"))
	other := NewNode(WithName("other"))

	parent.Add(child)
	require.Len(t, parent.Children(), 1)
	assert.Equal(t, parent, child.Parent())

	// re-parenting removes the node from its old parent
	other.Add(child)
	assert.Empty(t, parent.Children())
	assert.Equal(t, other, child.Parent())

	// cycles are ignored
	child.Add(other)
	assert.Empty(t, child.Children())
	child.Add(child)
	assert.Empty(t, child.Children())

	assert.True(t, other.Remove(child))
	assert.Nil(t, child.Parent())
	assert.False(t, other.Remove(child))
}

func TestWorldMatrix(t *testing.T) {
	leaf := NewNode(WithPosition(1, 0, 0))
	group := NewNode(WithPosition(0, 10, 0), WithScale(2, 2, 2), WithChildren(leaf))

	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, leaf.WorldMatrix())
	assert.True(t, origin.ApproxEqual(mgl32.Vec3{2, 10, 0}), "got %v", origin)
	assert.Equal(t, group, leaf.Parent())
}

func TestTooltip(t *testing.T) {
	n := NewNode(WithTooltip("a", "b"))
	assert.Equal(t, Tooltip{"a", "b"}, n.Tooltip())
	assert.Equal(t, "a\nb", n.Tooltip().String())

	n.SetTooltip()
	assert.Nil(t, n.Tooltip())

	n.SetTooltip("single")
	assert.Equal(t, Tooltip{"single"}, n.Tooltip())
}

func TestTraverseSkipsSubtree(t *testing.T) {
	g := NewGraph()
	a := NewNode(WithName("a"), WithChildren(NewNode(WithName("a1"))))
	b := NewNode(WithName("b"), WithChildren(NewNode(WithName("b1"))))
	g.Add(a, b)

	var visited []string
	g.Traverse(func(n Node) bool {
		visited = append(visited, n.Name())
		return n.Name() != "a"
	})
	assert.Equal(t, []string{"root", "a", "b", "b1"}, visited)
}

func TestSnapshot(t *testing.T) {
	box := geometry.NewBox(1, 1, 1)
	g := NewGraph()

	hidden := NewMesh(box, mgl32.Vec3{1, 0, 0}, WithVisible(false), WithChildren(NewMesh(box, mgl32.Vec3{0, 1, 0})))
	group := NewNode(WithPosition(5, 0, 0), WithChildren(NewMesh(box, mgl32.Vec3{0, 0, 1}, WithPosition(1, 0, 0), WithEmissive(2))))
	g.Add(hidden, group)

	items := g.Snapshot()
	require.Len(t, items, 1, "hidden subtrees are skipped")
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, items[0].Color)
	assert.Equal(t, float32(2), items[0].Emissive)
	pos := mgl32.TransformCoordinate(mgl32.Vec3{}, items[0].World)
	assert.True(t, pos.ApproxEqual(mgl32.Vec3{6, 0, 0}), "got %v", pos)
}

func TestSnapshotParallelKeepsOrder(t *testing.T) {
	box := geometry.NewBox(1, 1, 1)
	g := NewGraph(WithParallelThreshold(1), WithWorkers(4))
	t.Cleanup(g.Close)

	for i := range 50 {
		g.Add(NewMesh(box, mgl32.Vec3{1, 1, 1}, WithName(fmt.Sprint(i)), WithPosition(float32(i), 0, 0)))
	}

	items := g.Snapshot()
	require.Len(t, items, 50)
	for i, item := range items {
		assert.Equal(t, fmt.Sprint(i), item.Node.Name())
	}
}

func TestIntersectNearestFirstThroughGroups(t *testing.T) {
	box := geometry.NewBox(1, 1, 1)
	g := NewGraph()

	far := NewMesh(box, mgl32.Vec3{1, 1, 1}, WithName("far"), WithPosition(0, 0, -10))
	near := NewMesh(box, mgl32.Vec3{1, 1, 1}, WithName("near"), WithPosition(0, 0, -2))
	g.Add(NewNode(WithName("group"), WithChildren(far)), near)
	g.Add(NewMesh(box, mgl32.Vec3{1, 1, 1}, WithName("invisible"), WithPosition(0, 0, -5), WithVisible(false)))
	g.Add(NewMesh(box, mgl32.Vec3{1, 1, 1}, WithName("aside"), WithPosition(5, 0, -5)))

	hits := g.Intersect(geometry.NewRay(mgl32.Vec3{0.1, 0.2, 5}, mgl32.Vec3{0, 0, -1}))
	require.Len(t, hits, 2)
	assert.Equal(t, "near", hits[0].Node.Name())
	assert.Equal(t, "far", hits[1].Node.Name())
	assert.InDelta(t, 6.5, hits[0].Distance, 1e-4)
	assert.True(t, hits[0].Point.ApproxEqualThreshold(mgl32.Vec3{0.1, 0.2, -1.5}, 1e-4))
}

func TestConcurrentMutationIsSafe(t *testing.T) {
	g := NewGraph()
	box := geometry.NewBox(1, 1, 1)
	mesh := NewMesh(box, mgl32.Vec3{1, 1, 1})
	g.Add(mesh)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			mesh.SetRotation(mgl32.Vec3{0, float32(i), 0})
			g.Add(NewMesh(box, mgl32.Vec3{1, 1, 1}))
		}()
		go func() {
			defer wg.Done()
			_ = g.Snapshot()
			_ = g.Intersect(geometry.NewRay(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, -1}))
		}()
	}
	wg.Wait()
	assert.Len(t, g.Root().Children(), 9)
}
