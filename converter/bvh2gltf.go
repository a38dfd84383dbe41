package converter

import (
	"errors"
	"log"

	"github.com/binzume/bvhconv/bvh"
	"github.com/binzume/bvhconv/geom"
	"github.com/binzume/bvhconv/gltfutil"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const defaultFPS = 30

type BVHToGLTFOption struct {
	Scale         float32
	AnimationName string
}

type BVHToGLTFConverter struct {
	options *BVHToGLTFOption
}

func NewBVHToGLTFConverter(options *BVHToGLTFOption) *BVHToGLTFConverter {
	if options == nil {
		options = &BVHToGLTFOption{}
	}
	return &BVHToGLTFConverter{options: options}
}

func (c *BVHToGLTFConverter) scale() float32 {
	if c.options.Scale == 0 {
		return 1
	}
	return c.options.Scale
}

// Convert builds a glTF document with one node per joint and the motion as an animation.
func (c *BVHToGLTFConverter) Convert(doc *bvh.Document) (*gltf.Document, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New("empty bvh document")
	}
	scale := c.scale()
	gd := gltf.NewDocument()

	nodeByJoint := map[*bvh.Joint]uint32{}
	for i, j := range doc.Joints {
		t := j.Offset.Scale(scale)
		gd.Nodes = append(gd.Nodes, &gltf.Node{
			Name:        j.Name,
			Translation: t.ToArray(),
			Rotation:    [4]float32{0, 0, 0, 1},
			Scale:       [3]float32{1, 1, 1},
		})
		nodeByJoint[j] = uint32(i)
		if j.Parent == nil {
			gd.Scenes[0].Nodes = append(gd.Scenes[0].Nodes, uint32(i))
		} else {
			parent := gd.Nodes[nodeByJoint[j.Parent]]
			parent.Children = append(parent.Children, uint32(i))
		}
	}
	c.addSkin(gd, doc, nodeByJoint)

	if doc.FrameCount > 0 {
		c.addAnimation(gd, doc, nodeByJoint)
	}
	return gd, nil
}

func (c *BVHToGLTFConverter) addSkin(gd *gltf.Document, doc *bvh.Document, nodeByJoint map[*bvh.Joint]uint32) {
	scale := c.scale()
	var joints []uint32
	var invmats [][16]float32
	rest := map[*bvh.Joint]*geom.Vector3{}
	for _, j := range doc.Joints {
		pos := j.Offset.Scale(scale)
		if j.Parent != nil {
			pos = rest[j.Parent].Add(pos)
		}
		rest[j] = pos
		joints = append(joints, nodeByJoint[j])
		invmats = append(invmats, *geom.NewTranslateMatrix4(-pos.X, -pos.Y, -pos.Z))
	}
	gd.Skins = append(gd.Skins, &gltf.Skin{
		Name:                doc.Root.Name,
		Joints:              joints,
		Skeleton:            gltf.Index(nodeByJoint[doc.Root]),
		InverseBindMatrices: gltf.Index(gltfutil.WriteMatrices(gd, invmats)),
	})
}

func (c *BVHToGLTFConverter) addAnimation(gd *gltf.Document, doc *bvh.Document, nodeByJoint map[*bvh.Joint]uint32) {
	scale := c.scale()
	name := c.options.AnimationName
	if name == "" {
		name = "motion"
	}
	a := &gltf.Animation{Name: name}

	frameTime := doc.FrameTime
	if frameTime <= 0 {
		// sampler input must be strictly increasing
		frameTime = 1.0 / defaultFPS
	}
	keys := make([]float32, doc.FrameCount)
	for f := range keys {
		keys[f] = float32(f) * frameTime
	}
	keysAcc := gltfutil.WriteKeyframes(gd, keys)

	for _, j := range doc.Joints {
		n := nodeByJoint[j]

		if j.HasRotationChannel() {
			rotations := make([][4]float32, doc.FrameCount)
			var prev *geom.Quaternion
			for f := range rotations {
				q := j.LocalQuaternion(f)
				if prev != nil && prev.Dot(q) < 0 {
					// keep the shortest path for linear interpolation
					q = &geom.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
				}
				rotations[f] = q.ToArray()
				prev = q
			}
			samplesAcc := uint32(modeler.WriteTangent(gd, rotations))
			a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
				Input:         gltf.Index(keysAcc),
				Output:        gltf.Index(samplesAcc),
				Interpolation: gltf.InterpolationLinear,
			})
			a.Channels = append(a.Channels, &gltf.Channel{
				Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
				Target: gltf.ChannelTarget{
					Node: gltf.Index(n),
					Path: gltf.TRSRotation,
				},
			})
		}

		if j.HasPositionChannel() {
			translations := make([][3]float32, doc.FrameCount)
			for f := range translations {
				translations[f] = j.LocalTranslation(f).Scale(scale).ToArray()
			}
			samplesAcc := uint32(modeler.WritePosition(gd, translations))
			a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
				Input:         gltf.Index(keysAcc),
				Output:        gltf.Index(samplesAcc),
				Interpolation: gltf.InterpolationLinear,
			})
			a.Channels = append(a.Channels, &gltf.Channel{
				Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
				Target: gltf.ChannelTarget{
					Node: gltf.Index(n),
					Path: gltf.TRSTranslation,
				},
			})
		}
	}

	if len(a.Channels) > 0 {
		log.Printf("animation %q: %d channels, %d frames", name, len(a.Channels), doc.FrameCount)
		gd.Animations = append(gd.Animations, a)
	}
}
