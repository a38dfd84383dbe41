package converter

import (
	"errors"
	"log"
	"math"

	"github.com/binzume/bvhconv/bvh"
	"github.com/binzume/bvhconv/mmd"
)

type BVHToVMDOption struct {
	ModelName string
	Scale     float32
	FPS       float32
	// BVH joint name -> MMD bone name. Joints missing from a non-empty mapping are skipped.
	BoneMapping map[string]string
	// MMD bone that receives the root joint's translation (e.g. "センター").
	RootMotion string
}

type BVHToVMDConverter struct {
	options *BVHToVMDOption
}

func NewBVHToVMDConverter(options *BVHToVMDOption) *BVHToVMDConverter {
	if options == nil {
		options = &BVHToVMDOption{}
	}
	return &BVHToVMDConverter{options: options}
}

func (c *BVHToVMDConverter) boneName(j *bvh.Joint) (string, bool) {
	if len(c.options.BoneMapping) == 0 {
		return j.Name, true
	}
	name, ok := c.options.BoneMapping[j.Name]
	return name, ok && name != ""
}

// sourceFrames returns the nearest source frame for every output frame.
func (c *BVHToVMDConverter) sourceFrames(doc *bvh.Document) []int {
	fps := c.options.FPS
	if fps <= 0 {
		fps = mmd.FPS
	}
	if doc.FrameTime <= 0 {
		frames := make([]int, doc.FrameCount)
		for i := range frames {
			frames[i] = i
		}
		return frames
	}
	var frames []int
	for k := 0; ; k++ {
		src := int(math.Round(float64(k) / float64(fps) / float64(doc.FrameTime)))
		if src >= doc.FrameCount {
			break
		}
		frames = append(frames, src)
	}
	return frames
}

func (c *BVHToVMDConverter) Convert(doc *bvh.Document) (*mmd.Animation, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New("empty bvh document")
	}
	scale := c.options.Scale
	if scale == 0 {
		scale = 1
	}
	anim := &mmd.Animation{Name: c.options.ModelName}
	frames := c.sourceFrames(doc)

	for _, j := range doc.Joints {
		name, ok := c.boneName(j)
		rootMotion := j == doc.Root && c.options.RootMotion != ""
		if !ok && !rootMotion {
			continue
		}
		for k, src := range frames {
			if ok && (j.HasRotationChannel() || j.HasPositionChannel() && !rootMotion) {
				q := j.LocalQuaternion(src)
				s := &mmd.AnimationBoneSample{
					Target:   name,
					Frame:    k,
					Rotation: mmd.Vector4{X: -q.X, Y: -q.Y, Z: q.Z, W: q.W},
					Params:   mmd.DefaultInterpolation,
				}
				if j.HasPositionChannel() && !rootMotion {
					s.Position = c.position(j, src, scale)
				}
				anim.Bone = append(anim.Bone, s)
			}
			if rootMotion && j.HasPositionChannel() {
				anim.Bone = append(anim.Bone, &mmd.AnimationBoneSample{
					Target:   c.options.RootMotion,
					Frame:    k,
					Position: c.position(j, src, scale),
					Rotation: mmd.Vector4{W: 1},
					Params:   mmd.DefaultInterpolation,
				})
			}
		}
	}
	log.Printf("vmd: %d bone samples, %d frames", len(anim.Bone), len(frames))
	return anim, nil
}

// position is the position-channel delta from the rest offset, mirrored on Z.
func (c *BVHToVMDConverter) position(j *bvh.Joint, frame int, scale float32) mmd.Vector3 {
	d := j.LocalTranslation(frame).Sub(&j.Offset).Scale(scale)
	return mmd.Vector3{X: d.X, Y: d.Y, Z: -d.Z}
}
