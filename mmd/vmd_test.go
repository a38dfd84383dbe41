package mmd

import (
	"bytes"
	"testing"
)

func TestWriteVMD(t *testing.T) {
	anim := &Animation{Name: "test motion"}
	anim.Bone = append(anim.Bone,
		&AnimationBoneSample{Target: "センター", Frame: 3, Position: Vector3{1, 2, 3}, Rotation: Vector4{0, 0, 0, 1}, Params: DefaultInterpolation},
		&AnimationBoneSample{Target: "センター", Frame: 0, Rotation: Vector4{0, 0.7071, 0, 0.7071}},
		&AnimationBoneSample{Target: "左腕", Frame: 1, Rotation: Vector4{0, 0, 0, 1}},
	)
	anim.Morph = append(anim.Morph, &AnimationMorphSample{Target: "あ", Frame: 2, Value: 0.5})

	var buf bytes.Buffer
	if err := WriteVMD(&buf, anim); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 30+20+4+111*3+4+23+4*3 {
		t.Error("size: ", buf.Len())
	}

	anim2, err := NewVMDParser(&buf).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if anim2.Name != anim.Name || len(anim2.Bone) != 3 || len(anim2.Morph) != 1 {
		t.Fatal("read: ", anim2.Name, anim2.Bone, anim2.Morph)
	}
	if *anim2.Bone[0] != *anim.Bone[0] {
		t.Error("bone: ", anim2.Bone[0])
	}
	if *anim2.Morph[0] != *anim.Morph[0] {
		t.Error("morph: ", anim2.Morph[0])
	}

	channels := anim2.GetBoneChannels()
	center := channels["センター"]
	if center == nil || len(center.Frames) != 2 || center.Frames[0] != 0 || center.Frames[1] != 3 {
		t.Error("channels: ", channels)
	}
	if anim2.MaxFrame() != 3 {
		t.Error("MaxFrame: ", anim2.MaxFrame())
	}
}

func TestEncodeString(t *testing.T) {
	// 8 double-byte chars do not fit in 15 bytes
	b := encodeString("あいうえおかきく", 15)
	if len(b) != 15 || b[13] == 0 || b[14] != 0 {
		t.Error("truncate: ", b)
	}
	b = encodeString("Hips", 15)
	if string(b[:4]) != "Hips" || b[4] != 0 {
		t.Error("ascii: ", b)
	}
}

func TestParseVMDError(t *testing.T) {
	if _, err := NewVMDParser(bytes.NewReader([]byte("Vocaloid Motion Data file"))).Parse(); err == nil {
		t.Error("short input must fail")
	}
	data := make([]byte, 60)
	copy(data, "not a vmd")
	if _, err := NewVMDParser(bytes.NewReader(data)).Parse(); err == nil {
		t.Error("format name must be checked")
	}
}
