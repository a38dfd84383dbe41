package preview

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binzume/bvhconv/bvh"
)

const stick = `HIERARCHY
ROOT Hips
{
	OFFSET 0 0 0
	CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
	JOINT Head
	{
		OFFSET 0 10 0
		CHANNELS 3 Zrotation Xrotation Yrotation
		End Site
		{
			OFFSET 0 1 0
		}
	}
}
MOTION
Frames: 2
Frame Time: 0.0333333
0 0 0 0 0 0 0 0 0
5 0 0 0 0 0 0 0 0
`

func loadStick(t *testing.T) *bvh.Document {
	t.Helper()
	doc, err := bvh.Parse(strings.NewReader(stick))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestRender(t *testing.T) {
	doc := loadStick(t)
	img, err := Render(doc, 1, &Option{Width: 64, Height: 64})
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("size: %v", img.Bounds())
	}
	// vertical bone through the center column
	if r, _, _, _ := img.At(32, 32).RGBA(); r >= 0x8000 {
		t.Errorf("bone not drawn at center: %v", img.At(32, 32))
	}
	if r, _, _, _ := img.At(2, 2).RGBA(); r < 0xf000 {
		t.Errorf("background: %v", img.At(2, 2))
	}
	if r, _, _, _ := img.At(10, 32).RGBA(); r < 0xf000 {
		t.Errorf("unexpected pixel: %v", img.At(10, 32))
	}
}

func TestRenderRestPose(t *testing.T) {
	root := bvh.NewJoint("Root")
	root.AddChild(bvh.NewJoint("Tip")).Offset = bvh.Vector3{X: 5}
	doc, err := bvh.NewDocument(root, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Render(doc, 0, &Option{Width: 32, Height: 32})
	if err != nil {
		t.Fatal(err)
	}
	// horizontal bone through the center row
	if r, _, _, _ := img.At(16, 16).RGBA(); r >= 0x8000 {
		t.Errorf("bone not drawn: %v", img.At(16, 16))
	}

	if _, err := Render(doc, 1, nil); err == nil {
		t.Errorf("frame out of range accepted")
	}
	if _, err := Render(nil, 0, nil); err == nil {
		t.Errorf("nil document accepted")
	}
}

func TestSave(t *testing.T) {
	doc := loadStick(t)
	img, err := Render(doc, 0, &Option{Width: 16, Height: 24, Side: true})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, ext := range []string{".png", ".bmp", ".tga", ".webp"} {
		path := filepath.Join(dir, "pose"+ext)
		if err := Save(path, img); err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		st, err := os.Stat(path)
		if err != nil || st.Size() == 0 {
			t.Errorf("%s: not written", ext)
		}
	}

	f, err := os.Open(filepath.Join(dir, "pose.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 16 || decoded.Bounds().Dy() != 24 {
		t.Errorf("decoded size: %v", decoded.Bounds())
	}

	if err := Save(filepath.Join(dir, "pose.jpg"), img); err == nil {
		t.Errorf("jpg accepted")
	}
	if IsImageFile("a.bvh") || !IsImageFile("A.PNG") {
		t.Errorf("IsImageFile")
	}
}
