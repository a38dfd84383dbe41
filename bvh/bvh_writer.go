package bvh

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}

func formatVector(v *Vector3) string {
	return formatFloat(v.X) + " " + formatFloat(v.Y) + " " + formatFloat(v.Z)
}

func writeJoint(w *bufio.Writer, j *Joint, depth int) {
	indent := strings.Repeat("\t", depth)
	if j.Parent == nil {
		w.WriteString(indent + "ROOT " + j.Name + "\n")
	} else {
		w.WriteString(indent + "JOINT " + j.Name + "\n")
	}
	w.WriteString(indent + "{\n")
	w.WriteString(indent + "\tOFFSET " + formatVector(&j.Offset) + "\n")
	w.WriteString(indent + "\tCHANNELS " + strconv.Itoa(len(j.Channels)))
	for _, c := range j.Channels {
		w.WriteString(" " + c.String())
	}
	w.WriteString("\n")

	if len(j.Children) == 0 {
		// terminal offsets are not kept by the parser
		w.WriteString(indent + "\tEnd Site\n")
		w.WriteString(indent + "\t{\n")
		w.WriteString(indent + "\t\tOFFSET 0 0 0\n")
		w.WriteString(indent + "\t}\n")
	}
	for _, c := range j.Children {
		writeJoint(w, c, depth+1)
	}
	w.WriteString(indent + "}\n")
}

// Write writes doc in BVH text format.
func Write(ww io.Writer, doc *Document) error {
	if doc == nil || doc.Root == nil {
		return errors.New("bvh: empty document")
	}
	w := bufio.NewWriter(ww)

	w.WriteString("HIERARCHY\n")
	writeJoint(w, doc.Root, 0)

	w.WriteString("MOTION\n")
	w.WriteString("Frames: " + strconv.Itoa(doc.FrameCount) + "\n")
	w.WriteString("Frame Time: " + formatFloat(doc.FrameTime) + "\n")
	for f := 0; f < doc.FrameCount; f++ {
		first := true
		for _, j := range doc.Joints {
			for _, c := range j.Channels {
				if !first {
					w.WriteByte(' ')
				}
				first = false
				w.WriteString(formatFloat(j.Value(f, c)))
			}
		}
		w.WriteString("\n")
	}
	w.WriteString("\n")
	return w.Flush()
}

// Save writes doc to path.
func Save(path string, doc *Document) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(w, doc); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
