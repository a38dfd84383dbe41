// Package bvh reads and writes BVH motion capture files and evaluates joint poses.
package bvh

import (
	"fmt"

	"github.com/binzume/bvhconv/geom"
)

type Vector3 = geom.Vector3

// Channel is one animated degree of freedom of a joint.
type Channel int

const (
	ChannelUnknown Channel = iota
	Xposition
	Yposition
	Zposition
	Xrotation
	Yrotation
	Zrotation
)

var channelNames = [...]string{"UNKNOWN", "Xposition", "Yposition", "Zposition", "Xrotation", "Yrotation", "Zrotation"}

// ParseChannel maps a CHANNELS token to Channel. Matching is case sensitive.
func ParseChannel(s string) (Channel, bool) {
	for i, name := range channelNames {
		if i != int(ChannelUnknown) && name == s {
			return Channel(i), true
		}
	}
	return ChannelUnknown, false
}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return channelNames[ChannelUnknown]
	}
	return channelNames[c]
}

func (c Channel) IsPosition() bool {
	return c >= Xposition && c <= Zposition
}

func (c Channel) IsRotation() bool {
	return c >= Xrotation && c <= Zrotation
}

// Axis returns 0:X, 1:Y, 2:Z or -1 for unknown channel.
func (c Channel) Axis() int {
	switch {
	case c.IsPosition():
		return int(c - Xposition)
	case c.IsRotation():
		return int(c - Xrotation)
	}
	return -1
}

// Joint is a node of the skeleton tree.
type Joint struct {
	Name     string
	Offset   Vector3
	Channels []Channel

	// Parent is nil for the root joint.
	Parent   *Joint
	Children []*Joint

	positions []Vector3
	rotations []Vector3 // degrees
}

func NewJoint(name string) *Joint {
	return &Joint{Name: name}
}

// AddChild appends c to the children of j.
func (j *Joint) AddChild(c *Joint) *Joint {
	c.Parent = j
	j.Children = append(j.Children, c)
	return c
}

func (j *Joint) HasPositionChannel() bool {
	for _, c := range j.Channels {
		if c.IsPosition() {
			return true
		}
	}
	return false
}

func (j *Joint) HasRotationChannel() bool {
	for _, c := range j.Channels {
		if c.IsRotation() {
			return true
		}
	}
	return false
}

// Position returns the position sample at frame. Zero if not recorded.
func (j *Joint) Position(frame int) Vector3 {
	if frame < 0 || frame >= len(j.positions) {
		return Vector3{}
	}
	return j.positions[frame]
}

// Rotation returns the rotation sample in degrees at frame. Zero if not recorded.
func (j *Joint) Rotation(frame int) Vector3 {
	if frame < 0 || frame >= len(j.rotations) {
		return Vector3{}
	}
	return j.rotations[frame]
}

// SetPosition stores a position sample. Returns false if the joint has no storage for frame.
func (j *Joint) SetPosition(frame int, v Vector3) bool {
	if frame < 0 || frame >= len(j.positions) {
		return false
	}
	j.positions[frame] = v
	return true
}

// SetRotation stores a rotation sample in degrees. Returns false if the joint has no storage for frame.
func (j *Joint) SetRotation(frame int, v Vector3) bool {
	if frame < 0 || frame >= len(j.rotations) {
		return false
	}
	j.rotations[frame] = v
	return true
}

// Value returns the sample for a single channel.
func (j *Joint) Value(frame int, c Channel) float32 {
	if c.IsPosition() {
		v := j.Position(frame)
		return v.Get(c.Axis())
	} else if c.IsRotation() {
		v := j.Rotation(frame)
		return v.Get(c.Axis())
	}
	return 0
}

func (j *Joint) allocSamples(frames int) {
	j.positions, j.rotations = nil, nil
	if j.HasPositionChannel() {
		j.positions = make([]Vector3, frames)
	}
	if j.HasRotationChannel() {
		j.rotations = make([]Vector3, frames)
	}
}

// appendSample stores the samples of the next frame.
func (j *Joint) appendSample(pos, rot Vector3) {
	if j.HasPositionChannel() {
		j.positions = append(j.positions, pos)
	}
	if j.HasRotationChannel() {
		j.rotations = append(j.rotations, rot)
	}
}

// Document is a skeleton with its motion table.
type Document struct {
	Root *Joint
	// Joints in declaration order. Motion values are laid out in this order.
	Joints     []*Joint
	FrameCount int
	FrameTime  float32

	byName map[string]*Joint
}

// NewDocument builds a document from a joint tree and allocates zeroed samples.
// Parent links are set from Children.
func NewDocument(root *Joint, frameCount int, frameTime float32) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: no root joint", ErrStructure)
	}
	if frameCount < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", ErrStructure, frameCount)
	}
	doc := &Document{Root: root, FrameCount: frameCount, FrameTime: frameTime}
	var walk func(j *Joint)
	walk = func(j *Joint) {
		doc.Joints = append(doc.Joints, j)
		for _, c := range j.Children {
			c.Parent = j
			walk(c)
		}
	}
	root.Parent = nil
	walk(root)
	if err := doc.buildIndex(); err != nil {
		return nil, err
	}
	doc.allocSamples()
	return doc, nil
}

func (doc *Document) buildIndex() error {
	doc.byName = make(map[string]*Joint, len(doc.Joints))
	for _, j := range doc.Joints {
		if _, exists := doc.byName[j.Name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateJoint, j.Name)
		}
		doc.byName[j.Name] = j
	}
	return nil
}

func (doc *Document) allocSamples() {
	for _, j := range doc.Joints {
		j.allocSamples(doc.FrameCount)
	}
}

// Joint returns the joint named name or nil.
func (doc *Document) Joint(name string) *Joint {
	return doc.byName[name]
}

// AllJoints returns joints in declaration order.
func (doc *Document) AllJoints() []*Joint {
	return doc.Joints
}

// ChannelCount returns the number of values in a motion line.
func (doc *Document) ChannelCount() int {
	n := 0
	for _, j := range doc.Joints {
		n += len(j.Channels)
	}
	return n
}

// Duration returns the length of the motion in seconds.
func (doc *Document) Duration() float32 {
	return float32(doc.FrameCount) * doc.FrameTime
}
