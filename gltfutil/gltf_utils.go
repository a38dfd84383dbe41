package gltfutil

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes .glb as binary, otherwise as JSON with embedded buffers.
func Save(doc *gltf.Document, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".glb" {
		return gltf.SaveBinary(doc, path)
	}
	for _, b := range doc.Buffers {
		if b.URI == "" {
			b.EmbeddedResource()
		}
	}
	return gltf.Save(doc, path)
}

// WriteKeyframes writes animation input times. Samplers require min/max on the input accessor.
func WriteKeyframes(doc *gltf.Document, keys []float32) uint32 {
	acc := uint32(modeler.WriteAccessor(doc, gltf.TargetNone, keys))
	min, max := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, k := range keys {
		min = float32(math.Min(float64(min), float64(k)))
		max = float32(math.Max(float64(max), float64(k)))
	}
	if len(keys) > 0 {
		doc.Accessors[acc].Min = []float32{min}
		doc.Accessors[acc].Max = []float32{max}
	}
	return acc
}

// WriteMatrices writes column-major 4x4 matrices as a MAT4 accessor.
func WriteMatrices(doc *gltf.Document, mat [][16]float32) uint32 {
	a := make([][4]float32, len(mat)*4)
	for i, m := range mat {
		a[i*4+0] = [4]float32{m[0], m[1], m[2], m[3]}
		a[i*4+1] = [4]float32{m[4], m[5], m[6], m[7]}
		a[i*4+2] = [4]float32{m[8], m[9], m[10], m[11]}
		a[i*4+3] = [4]float32{m[12], m[13], m[14], m[15]}
	}
	acc := uint32(modeler.WriteTangent(doc, a))
	doc.Accessors[acc].Type = gltf.AccessorMat4
	doc.Accessors[acc].Count /= 4
	doc.BufferViews[*doc.Accessors[acc].BufferView].ByteStride = 0
	doc.BufferViews[*doc.Accessors[acc].BufferView].Target = gltf.TargetNone
	return acc
}
