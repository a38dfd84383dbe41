package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/bvhconv/bvh"
	"github.com/binzume/bvhconv/converter"
	"github.com/binzume/bvhconv/gltfutil"
	"github.com/binzume/bvhconv/mmd"
	"github.com/binzume/bvhconv/preview"
)

type saveOption struct {
	frame int
	side  bool
	size  int
}

func saveDocument(doc *bvh.Document, output string, conf *converter.Config, opt *saveOption) error {
	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".glb" || ext == ".gltf" {
		gltfdoc, err := converter.NewBVHToGLTFConverter(conf.GLTFOption()).Convert(doc)
		if err != nil {
			return err
		}
		return gltfutil.Save(gltfdoc, output)
	} else if ext == ".vmd" {
		anim, err := converter.NewBVHToVMDConverter(conf.VMDOption()).Convert(doc)
		if err != nil {
			return err
		}
		w, err := os.Create(output)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := mmd.WriteVMD(w, anim); err != nil {
			return err
		}
		return w.Close()
	} else if ext == ".bvh" {
		return bvh.Save(output, doc)
	} else if preview.IsImageFile(output) {
		img, err := preview.Render(doc, opt.frame, &preview.Option{Width: opt.size, Height: opt.size, Side: opt.side})
		if err != nil {
			return err
		}
		return preview.Save(output, img)
	}
	return fmt.Errorf("unsupported output type: %v", ext)
}

func printInfo(w io.Writer, doc *bvh.Document) {
	fmt.Fprintf(w, "joints: %d\n", len(doc.Joints))
	fmt.Fprintf(w, "channels: %d\n", doc.ChannelCount())
	fmt.Fprintf(w, "frames: %d\n", doc.FrameCount)
	fmt.Fprintf(w, "frame time: %v\n", doc.FrameTime)
	fmt.Fprintf(w, "duration: %v\n", doc.Duration())
	for _, j := range doc.Joints {
		depth := 0
		for p := j.Parent; p != nil; p = p.Parent {
			depth++
		}
		var channels []string
		for _, c := range j.Channels {
			channels = append(channels, c.String())
		}
		fmt.Fprintf(w, "%s%s [%s]\n", strings.Repeat("  ", depth), j.Name, strings.Join(channels, " "))
	}
}

func dumpPositions(w io.Writer, doc *bvh.Document, frame int, name string) error {
	joints := doc.Joints
	if name != "" {
		j := doc.Joint(name)
		if j == nil {
			return fmt.Errorf("%w: %q", bvh.ErrUnknownJoint, name)
		}
		joints = []*bvh.Joint{j}
	}
	for _, j := range joints {
		p, err := doc.GlobalPosition(j.Name, frame)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%v\t%v\t%v\n", j.Name, p.X, p.Y, p.Z)
	}
	return nil
}
