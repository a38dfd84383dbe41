// Package preview draws a stick figure of a BVH pose.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/binzume/bvhconv/bvh"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

const supersample = 2

type Option struct {
	Width  int
	Height int
	// Side projects onto the Z/Y plane instead of X/Y.
	Side       bool
	Margin     float32
	LineWidth  float32
	Background color.Color
	BoneColor  color.Color
	JointColor color.Color
}

func (o *Option) withDefaults() Option {
	opt := Option{Width: 256, Height: 256, Margin: 0.1, LineWidth: 2,
		Background: color.White, BoneColor: color.RGBA{40, 40, 40, 255}, JointColor: color.RGBA{220, 40, 40, 255}}
	if o == nil {
		return opt
	}
	if o.Width > 0 {
		opt.Width = o.Width
	}
	if o.Height > 0 {
		opt.Height = o.Height
	}
	if o.Margin > 0 {
		opt.Margin = o.Margin
	}
	if o.LineWidth > 0 {
		opt.LineWidth = o.LineWidth
	}
	if o.Background != nil {
		opt.Background = o.Background
	}
	if o.BoneColor != nil {
		opt.BoneColor = o.BoneColor
	}
	if o.JointColor != nil {
		opt.JointColor = o.JointColor
	}
	opt.Side = o.Side
	return opt
}

type point struct{ x, y float32 }

// project returns joint positions in supersampled image coordinates.
func project(doc *bvh.Document, frame int, opt *Option, w, h float32) ([]point, error) {
	var pose []point
	if doc.FrameCount == 0 && frame == 0 {
		// rest pose
		rest := map[*bvh.Joint]point{}
		for _, j := range doc.Joints {
			p := point{j.Offset.X, j.Offset.Y}
			if opt.Side {
				p.x = -j.Offset.Z
			}
			if j.Parent != nil {
				p.x += rest[j.Parent].x
				p.y += rest[j.Parent].y
			}
			rest[j] = p
			pose = append(pose, p)
		}
	} else {
		mats, err := doc.Pose(frame)
		if err != nil {
			return nil, err
		}
		for _, m := range mats {
			t := m.Translation()
			p := point{t.X, t.Y}
			if opt.Side {
				p.x = -t.Z
			}
			pose = append(pose, p)
		}
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for _, p := range pose {
		minX, maxX = min(minX, p.x), max(maxX, p.x)
		minY, maxY = min(minY, p.y), max(maxY, p.y)
	}
	extent := max(maxX-minX, maxY-minY)
	if extent <= 0 {
		extent = 1
	}
	margin := opt.Margin * min(w, h)
	s := min(w-margin*2, h-margin*2) / extent
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	for i, p := range pose {
		pose[i] = point{w/2 + (p.x-cx)*s, h/2 - (p.y-cy)*s}
	}
	return pose, nil
}

func addLine(z *vector.Rasterizer, a, b point, width float32) {
	dx, dy := b.x-a.x, b.y-a.y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(a.x+nx, a.y+ny)
	z.LineTo(b.x+nx, b.y+ny)
	z.LineTo(b.x-nx, b.y-ny)
	z.LineTo(a.x-nx, a.y-ny)
	z.ClosePath()
}

func addDot(z *vector.Rasterizer, c point, r float32) {
	const n = 12
	for i := 0; i < n; i++ {
		a := float64(i) * 2 * math.Pi / n
		x, y := c.x+r*float32(math.Cos(a)), c.y+r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// Render draws the pose at frame. A document without motion renders its rest pose at frame 0.
func Render(doc *bvh.Document, frame int, o *Option) (*image.RGBA, error) {
	if doc == nil || doc.Root == nil {
		return nil, errors.New("empty bvh document")
	}
	opt := o.withDefaults()
	w, h := opt.Width*supersample, opt.Height*supersample
	pose, err := project(doc, frame, &opt, float32(w), float32(h))
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)

	index := map[*bvh.Joint]int{}
	for i, j := range doc.Joints {
		index[j] = i
	}
	lineWidth := opt.LineWidth * supersample

	bones := vector.NewRasterizer(w, h)
	for i, j := range doc.Joints {
		if j.Parent != nil {
			addLine(bones, pose[index[j.Parent]], pose[i], lineWidth)
		}
	}
	bones.Draw(canvas, canvas.Bounds(), image.NewUniform(opt.BoneColor), image.Point{})

	joints := vector.NewRasterizer(w, h)
	for _, p := range pose {
		addDot(joints, p, lineWidth*1.5)
	}
	joints.Draw(canvas, canvas.Bounds(), image.NewUniform(opt.JointColor), image.Point{})

	dst := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)
	return dst, nil
}

func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".bmp", ".tga", ".webp":
		return true
	}
	return false
}

// Save writes img in the format selected by the file extension.
func Save(path string, img image.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsImageFile(path) {
		return fmt.Errorf("unsupported image type: %v", ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tga":
		err = tga.Encode(f, img)
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
