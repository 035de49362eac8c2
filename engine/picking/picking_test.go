package picking

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/geometry"
	"github.com/Carmen-Shannon/oxy-view/engine/node"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	show    bool
	x, y    float64
	content string
}

type recordingSink struct {
	calls []call
}

func (r *recordingSink) Show(x, y float64, content string) {
	r.calls = append(r.calls, call{show: true, x: x, y: y, content: content})
}

func (r *recordingSink) Hide() {
	r.calls = append(r.calls, call{})
}

// pointer position slightly off the surface centre so the ray avoids triangle edges
const px, py = 52.0, 47.0

func newScene(nodes ...node.Node) (camera.Camera, node.Graph) {
	cam := camera.NewCamera(camera.WithPosition(0, 0, 10))
	g := node.NewGraph()
	g.Add(nodes...)
	return cam, g
}

func box(z float32, tooltip ...string) node.Node {
	return node.NewMesh(geometry.NewBox(2, 2, 2), mgl32.Vec3{1, 1, 1}, node.WithPosition(0, 0, z), node.WithTooltip(tooltip...))
}

func TestNDC(t *testing.T) {
	tests := []struct {
		x, y   float64
		wx, wy float32
	}{
		{0, 0, -1, 1},
		{100, 100, 1, -1},
		{50, 50, 0, 0},
		{75, 25, 0.5, 0.5},
	}
	for _, tt := range tests {
		x, y := NDC(tt.x, tt.y, 100, 100)
		assert.InDelta(t, tt.wx, x, 1e-6)
		assert.InDelta(t, tt.wy, y, 1e-6)
	}
}

func TestPointerMoveNoHitHides(t *testing.T) {
	cam, g := newScene(box(0, "far away"))
	sink := &recordingSink{}
	p := NewPicker(cam, g, WithSink(sink))

	assert.False(t, p.PointerMove(1, 1, 100, 100))
	require.Len(t, sink.calls, 1)
	assert.False(t, sink.calls[0].show)
}

func TestPointerMoveShowsTooltip(t *testing.T) {
	cam, g := newScene(box(0, "Node A", "cpu: 4"))
	sink := &recordingSink{}
	p := NewPicker(cam, g, WithSink(sink))

	assert.True(t, p.PointerMove(px, py, 100, 100))
	require.Len(t, sink.calls, 1)
	assert.Equal(t, call{show: true, x: px + 2, y: py + 2, content: "<div>Node A<br>cpu: 4</div>"}, sink.calls[0])
}

func TestPointerMoveSkipsUntaggedOccluder(t *testing.T) {
	cam, g := newScene(box(0, "behind"), box(4))
	p := NewPicker(cam, g)

	res, ok := p.Pick(px, py, 100, 100)
	require.True(t, ok)
	assert.Equal(t, node.Tooltip{"behind"}, res.Tooltip)
}

func TestPointerMoveNearestTooltipWins(t *testing.T) {
	cam, g := newScene(box(0, "far"), box(4, "near"))
	p := NewPicker(cam, g)

	res, ok := p.Pick(px, py, 100, 100)
	require.True(t, ok)
	assert.Equal(t, node.Tooltip{"near"}, res.Tooltip)
	assert.InDelta(t, 5, res.Distance, 0.05)
}

func TestPointerMoveRecursesIntoGroups(t *testing.T) {
	group := node.NewNode(node.WithName("group"), node.WithChildren(box(0, "nested")))
	cam, g := newScene(group)
	p := NewPicker(cam, g)

	assert.True(t, p.PointerMove(px, py, 100, 100))
	state := p.Sink().(Overlay).State()
	assert.True(t, state.Visible)
	assert.Equal(t, "<div>nested</div>", state.Content)
}

func TestPointerMoveTransitions(t *testing.T) {
	cam, g := newScene(box(0, "target"))
	overlay := NewOverlay()
	p := NewPicker(cam, g, WithSink(overlay))

	p.PointerMove(px, py, 100, 100)
	assert.True(t, overlay.State().Visible)

	p.PointerMove(1, 1, 100, 100)
	state := overlay.State()
	assert.False(t, state.Visible)
	assert.Equal(t, "<div>target</div>", state.Content, "hiding keeps the last content")
}

func TestPointerMoveZeroSurface(t *testing.T) {
	cam, g := newScene(box(0, "x"))
	sink := &recordingSink{}
	p := NewPicker(cam, g, WithSink(sink))

	assert.False(t, p.PointerMove(0, 0, 0, 0))
	require.Len(t, sink.calls, 1)
	assert.False(t, sink.calls[0].show)
}

func TestWithOffset(t *testing.T) {
	cam, g := newScene(box(0, "x"))
	sink := &recordingSink{}
	p := NewPicker(cam, g, WithSink(sink), WithOffset(10, -5))

	p.PointerMove(px, py, 100, 100)
	require.Len(t, sink.calls, 1)
	assert.Equal(t, px+10, sink.calls[0].x)
	assert.Equal(t, py-5, sink.calls[0].y)
}

func TestFormatContentEscapes(t *testing.T) {
	content := FormatContent(node.Tooltip{"<b>bold</b>", "a & b"})
	assert.Equal(t, "<div>&lt;b&gt;bold&lt;/b&gt;<br>a &amp; b</div>", content)
	assert.Equal(t, "<b>bold</b> | a & b", PlainText(content, " | "))
}

func TestOverlayOnChange(t *testing.T) {
	o := NewOverlay()
	var seen []OverlayState
	o.OnChange(func(s OverlayState) { seen = append(seen, s) })

	o.Hide()
	o.Show(1, 2, "a")
	o.Show(1, 2, "a")
	o.Hide()

	require.Len(t, seen, 2)
	assert.Equal(t, OverlayState{Visible: true, X: 1, Y: 2, Content: "a"}, seen[0])
	assert.Equal(t, OverlayState{X: 1, Y: 2, Content: "a"}, seen[1])
}

func TestSetSinkNilInstallsOverlay(t *testing.T) {
	cam, g := newScene()
	p := NewPicker(cam, g)
	p.SetSink(nil)
	_, ok := p.Sink().(Overlay)
	assert.True(t, ok)
}
