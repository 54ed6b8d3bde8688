package graph

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/xandwr/hoplite"
)

// recordingNode captures the target and input views it was executed with.
type recordingNode struct {
	NoReload
	target *wgpu.TextureView
	input  *wgpu.TextureView
	runs   int
}

func (n *recordingNode) Execute(_ *RenderContext, target, input *wgpu.TextureView) {
	n.target = target
	n.input = input
	n.runs++
}

// testGraph builds a graph around sentinel views without touching the GPU.
func testGraph(nodes ...Node) (*Graph, *wgpu.TextureView, *wgpu.TextureView) {
	viewA := new(wgpu.TextureView)
	viewB := new(wgpu.TextureView)
	g := &Graph{
		nodes:   nodes,
		targetA: &RenderTarget{view: viewA},
		targetB: &RenderTarget{view: viewB},
	}
	return g, viewA, viewB
}

func TestRunNodesSingleNode(t *testing.T) {
	node := &recordingNode{}
	g, viewA, viewB := testGraph(node)
	final := new(wgpu.TextureView)

	g.runNodes(&RenderContext{}, final)

	if node.runs != 1 {
		t.Fatalf("node ran %d times, want 1", node.runs)
	}
	if node.target != final {
		t.Error("single node should render straight to the final view")
	}
	if node.input != nil {
		t.Error("single node should receive nil input")
	}
	if node.target == viewA || node.target == viewB {
		t.Error("single node must not touch the intermediate targets")
	}
}

func TestRunNodesPingPong(t *testing.T) {
	// Expected targets by chain position: even intermediates write A, odd
	// write B, the last always writes the final view, and every node after
	// the first reads the previous node's target.
	for _, count := range []int{2, 3, 4} {
		nodes := make([]Node, count)
		recs := make([]*recordingNode, count)
		for i := range nodes {
			recs[i] = &recordingNode{}
			nodes[i] = recs[i]
		}
		g, viewA, viewB := testGraph(nodes...)
		final := new(wgpu.TextureView)

		g.runNodes(&RenderContext{}, final)

		for i, rec := range recs {
			want := final
			if i != count-1 {
				if i%2 == 0 {
					want = viewA
				} else {
					want = viewB
				}
			}
			if rec.target != want {
				t.Errorf("%d nodes: node %d wrote the wrong target", count, i)
			}

			if i == 0 {
				if rec.input != nil {
					t.Errorf("%d nodes: first node should receive nil input", count)
				}
			} else if rec.input != recs[i-1].target {
				t.Errorf("%d nodes: node %d did not read node %d's output", count, i, i-1)
			}
		}
	}
}

func TestRunNodesAlternatesBetweenTwoTargets(t *testing.T) {
	// A four-node chain revisits target A at position 2. The third node
	// must overwrite A only after the second node has consumed it.
	nodes := []Node{&recordingNode{}, &recordingNode{}, &recordingNode{}, &recordingNode{}}
	g, viewA, _ := testGraph(nodes...)

	g.runNodes(&RenderContext{}, new(wgpu.TextureView))

	if nodes[2].(*recordingNode).target != viewA {
		t.Error("third node should reuse target A")
	}
	if nodes[2].(*recordingNode).input != nodes[1].(*recordingNode).target {
		t.Error("third node should read target B written by the second node")
	}
}

func TestPostProcessNodeFirstPanics(t *testing.T) {
	node := &PostProcessNode{}
	g, _, _ := testGraph(node)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("post-process node first in chain should panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "post-process") {
			t.Errorf("unexpected panic value: %v", r)
		}
	}()
	g.runNodes(&RenderContext{}, new(wgpu.TextureView))
}

func TestBuilderOrder(t *testing.T) {
	first := &recordingNode{}
	second := &recordingNode{}

	b := NewBuilder().Node(first).Node(second)
	if len(b.nodes) != 2 || b.nodes[0] != Node(first) || b.nodes[1] != Node(second) {
		t.Error("builder does not preserve node order")
	}
}

func TestWithNodeAppends(t *testing.T) {
	first := &recordingNode{}
	g, viewA, _ := testGraph(first)

	// Target sizes match the zero-size context, so ensureTargets is a
	// no-op and no GPU is needed.
	second := &recordingNode{}
	g.WithNode(second, &hoplite.Context{})

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", g.NodeCount())
	}

	final := new(wgpu.TextureView)
	g.runNodes(&RenderContext{}, final)
	if first.target != viewA || second.target != final {
		t.Error("appended node did not extend the chain")
	}
}
