package gltf

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LocalTransform returns the node's local matrix. An explicit matrix
// wins as-is; otherwise translation, rotation and scale compose as
// T*R*S with identity defaults for absent parts. Both the format and
// mgl32 store matrices column-major, so the explicit form converts
// by direct reinterpretation.
func (n *Node) LocalTransform() mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	m := mgl32.Ident4()
	if t := n.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := n.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if s := n.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// WorldTransform composes local matrices root to node. A node without
// a parent has world equal to local.
func (n *Node) WorldTransform() mgl32.Mat4 {
	if n.parent == nil {
		return n.LocalTransform()
	}
	return n.parent.WorldTransform().Mul4(n.LocalTransform())
}
