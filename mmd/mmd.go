// Package mmd reads and writes MikuMikuDance motion data (.vmd).
package mmd

type Vector3 struct {
	X float32
	Y float32
	Z float32
}

type Vector4 struct {
	X float32
	Y float32
	Z float32
	W float32
}

// MMD frame rate.
const FPS = 30
