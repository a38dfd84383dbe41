package mmd

import (
	"fmt"
	"io"
	"os"
	"sort"
)

const vmdFormatName = "Vocaloid Motion Data 0002"

// VMDParser is parser for .vmd animation.
type VMDParser struct {
	baseParser
}

type Animation struct {
	Name  string
	Bone  []*AnimationBoneSample
	Morph []*AnimationMorphSample
}

type AnimationBoneSample struct {
	Target   string
	Frame    int
	Position Vector3
	Rotation Vector4
	Params   [64]byte
}

type AnimationMorphSample struct {
	Target string
	Frame  int
	Value  float32
}

type BoneChannel struct {
	Target    string
	Frames    []uint32
	Positions []*Vector3
	Rotations []*Vector4
}

// GetBoneChannels groups bone samples by target, sorted by frame.
func (a *Animation) GetBoneChannels() map[string]*BoneChannel {
	sort.SliceStable(a.Bone, func(i, j int) bool { return a.Bone[i].Frame < a.Bone[j].Frame })

	r := map[string]*BoneChannel{}
	for _, s := range a.Bone {
		ch, ok := r[s.Target]
		if !ok {
			ch = &BoneChannel{Target: s.Target}
			r[s.Target] = ch
		}
		ch.Frames = append(ch.Frames, uint32(s.Frame))
		ch.Positions = append(ch.Positions, &s.Position)
		ch.Rotations = append(ch.Rotations, &s.Rotation)
	}
	return r
}

// MaxFrame returns the last frame number used by any sample.
func (a *Animation) MaxFrame() int {
	last := 0
	for _, s := range a.Bone {
		if s.Frame > last {
			last = s.Frame
		}
	}
	for _, s := range a.Morph {
		if s.Frame > last {
			last = s.Frame
		}
	}
	return last
}

// NewVMDParser returns new parser.
func NewVMDParser(r io.Reader) *VMDParser {
	return &VMDParser{baseParser: baseParser{r: r}}
}

// Parse animation data.
func (p *VMDParser) Parse() (*Animation, error) {
	var anim Animation

	formatName := p.readString(30)
	if p.err != nil {
		return nil, p.err
	}
	if formatName != vmdFormatName {
		return nil, fmt.Errorf("Format error: %v != %v", formatName, vmdFormatName)
	}

	anim.Name = p.readString(20)

	frames := p.readInt()
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &AnimationBoneSample{}
		sample.Target = p.readString(15)
		sample.Frame = p.readInt()
		p.read(&sample.Position)
		p.read(&sample.Rotation)
		p.read(&sample.Params)
		anim.Bone = append(anim.Bone, sample)
	}

	frames = p.readInt()
	for i := 0; i < frames && p.err == nil; i++ {
		sample := &AnimationMorphSample{}
		sample.Target = p.readString(15)
		sample.Frame = p.readInt()
		sample.Value = p.readFloat()
		anim.Morph = append(anim.Morph, sample)
	}

	if p.err != nil {
		return nil, p.err
	}
	return &anim, nil
}

// LoadVMD reads a .vmd file.
func LoadVMD(path string) (*Animation, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return NewVMDParser(r).Parse()
}
