package bvh

import (
	"fmt"

	"github.com/binzume/bvhconv/geom"
)

// LocalRotation returns the rotation of j at frame. Rotation channels are applied
// in reverse declaration order, so "Zrotation Xrotation Yrotation" gives Rz*Rx*Ry.
func (j *Joint) LocalRotation(frame int) *geom.Matrix4 {
	rot := j.Rotation(frame)
	m := geom.NewMatrix4()
	for i := len(j.Channels) - 1; i >= 0; i-- {
		c := j.Channels[i]
		if !c.IsRotation() {
			continue
		}
		m = geom.NewAxisRotationMatrix4(c.Axis(), float64(rot.Get(c.Axis()))*geom.DegToRad).Mul(m)
	}
	return m
}

// LocalQuaternion is LocalRotation as a quaternion.
func (j *Joint) LocalQuaternion(frame int) *geom.Quaternion {
	rot := j.Rotation(frame)
	q := geom.NewQuaternion(0, 0, 0, 1)
	for i := len(j.Channels) - 1; i >= 0; i-- {
		c := j.Channels[i]
		if !c.IsRotation() {
			continue
		}
		q = geom.NewAxisRotationQuaternion(c.Axis(), float64(rot.Get(c.Axis()))*geom.DegToRad).Mul(q)
	}
	return q
}

// LocalTranslation returns the rest offset plus position samples on axes that have a position channel.
func (j *Joint) LocalTranslation(frame int) *Vector3 {
	t := j.Offset
	pos := j.Position(frame)
	for _, c := range j.Channels {
		if c.IsPosition() {
			axis := c.Axis()
			t.Set(axis, t.Get(axis)+pos.Get(axis))
		}
	}
	return &t
}

// LocalTransform returns Translate(offset) * R for j at frame.
func (j *Joint) LocalTransform(frame int) *geom.Matrix4 {
	t := j.LocalTranslation(frame)
	return geom.NewTranslateMatrix4(t.X, t.Y, t.Z).Mul(j.LocalRotation(frame))
}

func (doc *Document) checkFrame(frame int) error {
	if frame < 0 || frame >= doc.FrameCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, frame, doc.FrameCount)
	}
	return nil
}

// GlobalTransform returns the world transform of the named joint at frame.
func (doc *Document) GlobalTransform(name string, frame int) (*geom.Matrix4, error) {
	j := doc.Joint(name)
	if j == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJoint, name)
	}
	if err := doc.checkFrame(frame); err != nil {
		return nil, err
	}
	m := geom.NewMatrix4()
	for ; j != nil; j = j.Parent {
		m = j.LocalTransform(frame).Mul(m)
	}
	return m, nil
}

// GlobalPosition returns the world position of the named joint at frame.
func (doc *Document) GlobalPosition(name string, frame int) (*Vector3, error) {
	m, err := doc.GlobalTransform(name, frame)
	if err != nil {
		return nil, err
	}
	return m.ApplyTo(&Vector3{}), nil
}

// Pose returns world transforms of all joints at frame, in declaration order.
func (doc *Document) Pose(frame int) ([]*geom.Matrix4, error) {
	if err := doc.checkFrame(frame); err != nil {
		return nil, err
	}
	index := make(map[*Joint]int, len(doc.Joints))
	mats := make([]*geom.Matrix4, len(doc.Joints))
	for i, j := range doc.Joints {
		index[j] = i
		local := j.LocalTransform(frame)
		if pi, ok := index[j.Parent]; ok {
			mats[i] = mats[pi].Mul(local)
		} else {
			mats[i] = local
		}
	}
	return mats, nil
}
