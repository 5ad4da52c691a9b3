package shell

import "github.com/calder/browsershell/internal/geometry"

// SceneNode is one drawable element in the handoff graph the active
// layout produces for the compositor. The shell never rasterizes; it
// only describes what should be drawn where.
type SceneNode struct {
	Name     string
	Bounds   geometry.Rect
	Alpha    float64
	Children []*SceneNode
}

// AddChild appends a child node and returns it for chaining.
func (n *SceneNode) AddChild(child *SceneNode) *SceneNode {
	n.Children = append(n.Children, child)
	return child
}

// Frame is the per-frame package handed to the draw collaborator: the
// viewport projections, the resolved chrome offset, and the active
// layout's scene graph.
type Frame struct {
	Viewport     geometry.Viewport
	ChromeOffset float64
	Root         *SceneNode
}
