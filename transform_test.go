package gltf_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalTransformDefaultsToIdentity(t *testing.T) {
	d := decodeDoc(t, `{"asset":{"version":"2.0"},"nodes":[{}]}`)
	assert.Equal(t, mgl32.Ident4(), d.Nodes[0].LocalTransform())
	assert.Equal(t, mgl32.Ident4(), d.Nodes[0].WorldTransform())
}

func TestLocalTransformExplicitMatrix(t *testing.T) {
	d := decodeDoc(t, `{"asset":{"version":"2.0"},"nodes":[{
		"matrix": [2,0,0,0, 0,2,0,0, 0,0,2,0, 5,6,7,1]
	}]}`)
	want := mgl32.Mat4{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 5, 6, 7, 1}
	// An explicit matrix is returned unchanged, column-major.
	assert.Equal(t, want, d.Nodes[0].LocalTransform())
}

func TestLocalTransformTRS(t *testing.T) {
	d := decodeDoc(t, `{"asset":{"version":"2.0"},"nodes":[{
		"translation": [1, 2, 3],
		"rotation": [0, 0, 0.7071068, 0.7071068],
		"scale": [2, 2, 2]
	}]}`)
	m := d.Nodes[0].LocalTransform()

	// T*R*S applied to the x unit vector: scale to 2, rotate 90 deg
	// around z to +y, then translate.
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, m)
	assert.InDelta(t, 1, got.X(), 1e-5)
	assert.InDelta(t, 4, got.Y(), 1e-5)
	assert.InDelta(t, 3, got.Z(), 1e-5)
}

func TestWorldTransformChain(t *testing.T) {
	d := decodeDoc(t, `{"asset":{"version":"2.0"},"nodes":[
		{"translation": [1, 0, 0], "children": [1]},
		{"translation": [0, 1, 0], "children": [2]},
		{"translation": [0, 0, 1]}
	]}`)

	b := d.Nodes[2]
	require.Equal(t, d.Nodes[1], b.Parent())
	require.Equal(t, d.Nodes[0], b.Parent().Parent())

	world := b.WorldTransform()
	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, world)
	assert.InDelta(t, 1, origin.X(), 1e-6)
	assert.InDelta(t, 1, origin.Y(), 1e-6)
	assert.InDelta(t, 1, origin.Z(), 1e-6)

	// A root's world transform equals its local one.
	assert.Equal(t, d.Nodes[0].LocalTransform(), d.Nodes[0].WorldTransform())
}

func TestWorldTransformScaleInheritance(t *testing.T) {
	d := decodeDoc(t, `{"asset":{"version":"2.0"},"nodes":[
		{"scale": [2, 2, 2], "children": [1]},
		{"translation": [1, 0, 0]}
	]}`)
	origin := mgl32.TransformCoordinate(mgl32.Vec3{}, d.Nodes[1].WorldTransform())
	// Parent scale applies to the child's translation.
	assert.InDelta(t, 2, origin.X(), 1e-6)
}
