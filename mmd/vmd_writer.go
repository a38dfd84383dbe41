package mmd

import (
	"bufio"
	"io"
)

// linear interpolation for X, Y, Z and rotation.
var DefaultInterpolation = [64]byte{
	20, 20, 0, 0, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107,
	20, 20, 20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107, 0,
	20, 20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107, 0, 0,
	20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107, 0, 0, 0,
}

// WriteVMD writes anim in VMD format. Names are encoded as Shift_JIS.
func WriteVMD(ww io.Writer, anim *Animation) error {
	bw := bufio.NewWriter(ww)
	w := &baseWriter{w: bw}

	w.writeString(vmdFormatName, 30)
	w.writeString(anim.Name, 20)

	w.writeInt(len(anim.Bone))
	for _, s := range anim.Bone {
		w.writeString(s.Target, 15)
		w.writeInt(s.Frame)
		w.write(&s.Position)
		w.write(&s.Rotation)
		w.write(&s.Params)
	}

	w.writeInt(len(anim.Morph))
	for _, s := range anim.Morph {
		w.writeString(s.Target, 15)
		w.writeInt(s.Frame)
		w.write(s.Value)
	}

	w.writeInt(0) // camera
	w.writeInt(0) // light
	w.writeInt(0) // self shadow

	if w.err != nil {
		return w.err
	}
	return bw.Flush()
}
