package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binzume/bvhconv/bvh"
	"github.com/binzume/bvhconv/converter"
	"github.com/binzume/bvhconv/mmd"
)

const testBVH = `HIERARCHY
ROOT Hips
{
	OFFSET 0 0 0
	CHANNELS 3 Xposition Yposition Zposition
	JOINT Spine
	{
		OFFSET 0 10 0
		CHANNELS 1 Yrotation
		End Site
		{
			OFFSET 0 5 0
		}
	}
}
MOTION
Frames: 2
Frame Time: 0.0333333
0 0 0 0
1 2 3 90
`

func loadTestBVH(t *testing.T) *bvh.Document {
	t.Helper()
	doc, err := bvh.Parse(strings.NewReader(testBVH))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDumpPositions(t *testing.T) {
	doc := loadTestBVH(t)
	var buf bytes.Buffer
	if err := dumpPositions(&buf, doc, 1, "Spine"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Spine\t1\t12\t3\n" {
		t.Errorf("dump: %q", buf.String())
	}

	if err := dumpPositions(&buf, doc, 0, "Tail"); !errors.Is(err, bvh.ErrUnknownJoint) {
		t.Errorf("unknown joint: %v", err)
	}
	if err := dumpPositions(&buf, doc, 2, ""); !errors.Is(err, bvh.ErrFrameOutOfRange) {
		t.Errorf("frame out of range: %v", err)
	}
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	printInfo(&buf, loadTestBVH(t))
	out := buf.String()
	for _, s := range []string{"joints: 2\n", "channels: 4\n", "frames: 2\n", "  Spine [Yrotation]\n"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in %q", s, out)
		}
	}
}

func TestSaveDocument(t *testing.T) {
	doc := loadTestBVH(t)
	dir := t.TempDir()
	conf := &converter.Config{FPS: 30}

	for _, name := range []string{"out.bvh", "out.glb", "out.gltf", "out.vmd", "out.png"} {
		if err := saveDocument(doc, filepath.Join(dir, name), conf, &saveOption{size: 32}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if err := saveDocument(doc, filepath.Join(dir, "out.fbx"), conf, &saveOption{}); err == nil {
		t.Errorf("fbx accepted")
	}

	reloaded, err := bvh.Load(filepath.Join(dir, "out.bvh"))
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.FrameCount != 2 || reloaded.Joint("Spine").Rotation(1).Y != 90 {
		t.Errorf("bvh round trip")
	}

	anim, err := mmd.LoadVMD(filepath.Join(dir, "out.vmd"))
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.GetBoneChannels()["Spine"].Frames) != 2 {
		t.Errorf("vmd frames: %v", anim.GetBoneChannels())
	}
}

func TestDefaultOutputFile(t *testing.T) {
	if defaultOutputFile("dir/walk.BVH") != "dir/walk.glb" {
		t.Errorf("default output: %v", defaultOutputFile("dir/walk.BVH"))
	}
}
