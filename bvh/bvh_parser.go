package bvh

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const (
	maxLineSize = 16 * 1024 * 1024
	// 38 hours at 120fps
	maxFrameCount = 1 << 24
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

type parseMode int

const (
	modeUnset parseMode = iota
	modeHierarchy
	modeMotion
)

// Parser for .bvh file.
type Parser struct {
	r io.Reader
	// Encoding of the input. Detected from the first bytes if nil (UTF-8 or Shift_JIS).
	Encoding encoding.Encoding

	mode         parseMode
	doc          *Document
	stack        []*Joint
	channels     int
	hasFrames    bool
	hasFrameTime bool
	frame        int
	skipLines    int
	overflow     bool

	line int
	text string
}

// NewParser returns new parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

func (p *Parser) reset() {
	p.mode = modeUnset
	p.doc = &Document{}
	p.stack = nil
	p.channels = 0
	p.hasFrames = false
	p.hasFrameTime = false
	p.frame = 0
	p.skipLines = 0
	p.overflow = false
	p.line = 0
	p.text = ""
}

// reader decodes the input. Without an explicit Encoding, the hierarchy part
// (everything up to the MOTION line) decides between UTF-8 and Shift_JIS.
func (p *Parser) reader() (io.Reader, error) {
	br := bufio.NewReader(p.r)
	if p.Encoding != nil {
		return transform.NewReader(br, p.Encoding.NewDecoder()), nil
	}
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
		return br, nil
	}

	var head []byte
	for {
		line, err := br.ReadBytes('\n')
		head = append(head, line...)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("MOTION")) {
			break
		}
	}
	r := io.MultiReader(bytes.NewReader(head), br)
	if !utf8.Valid(head) {
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder()), nil
	}
	return r, nil
}

// Parse reads the whole input. The returned document is complete; on error no document is returned.
func (p *Parser) Parse() (*Document, error) {
	p.reset()

	r, err := p.reader()
	if err != nil {
		return nil, err
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), maxLineSize)
	for s.Scan() {
		p.line++
		p.text = s.Text()
		words := strings.Fields(p.text)
		if len(words) == 0 {
			continue
		}
		if p.skipLines > 0 {
			p.skipLines--
			continue
		}
		if err := p.parseLine(words); err != nil {
			return nil, &ParseError{Line: p.line, Text: strings.TrimSpace(p.text), Err: err}
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, &ParseError{Err: err}
	}
	return p.doc, nil
}

func (p *Parser) finish() error {
	if p.skipLines > 0 {
		return fmt.Errorf("%w: unterminated End Site", ErrStructure)
	}
	if p.mode != modeMotion {
		return p.endHierarchy()
	}
	if p.frame < p.doc.FrameCount {
		log.Printf("bvh: %d of %d frames found", p.frame, p.doc.FrameCount)
	}
	return nil
}

func (p *Parser) parseLine(words []string) error {
	switch words[0] {
	case "HIERARCHY":
		if p.mode == modeMotion {
			return fmt.Errorf("%w: HIERARCHY after MOTION", ErrStructure)
		}
		p.mode = modeHierarchy
		return nil
	case "MOTION":
		if p.mode == modeMotion {
			return nil
		}
		if err := p.endHierarchy(); err != nil {
			return err
		}
		p.mode = modeMotion
		return nil
	}

	switch p.mode {
	case modeHierarchy:
		return p.parseHierarchy(words)
	case modeMotion:
		return p.parseMotion(words)
	}
	return nil
}

func (p *Parser) endHierarchy() error {
	if p.doc.Root == nil {
		return fmt.Errorf("%w: ROOT not found", ErrStructure)
	}
	if len(p.stack) > 0 {
		return fmt.Errorf("%w: joint %q is not closed", ErrStructure, p.stack[len(p.stack)-1].Name)
	}
	p.channels = p.doc.ChannelCount()
	return p.doc.buildIndex()
}

func (p *Parser) current() *Joint {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(j *Joint) {
	p.stack = append(p.stack, j)
	p.doc.Joints = append(p.doc.Joints, j)
}

func (p *Parser) parseHierarchy(words []string) error {
	switch words[0] {
	case "ROOT":
		if p.doc.Root != nil {
			return fmt.Errorf("%w: multiple ROOT", ErrStructure)
		}
		if len(words) < 2 {
			return fmt.Errorf("%w: ROOT without name", ErrStructure)
		}
		p.doc.Root = NewJoint(words[1])
		p.push(p.doc.Root)
	case "JOINT":
		parent := p.current()
		if parent == nil {
			return fmt.Errorf("%w: JOINT outside of ROOT", ErrStructure)
		}
		if len(words) < 2 {
			return fmt.Errorf("%w: JOINT without name", ErrStructure)
		}
		p.push(parent.AddChild(NewJoint(words[1])))
	case "End":
		if len(words) < 2 || words[1] != "Site" {
			return fmt.Errorf("%w: unexpected End", ErrStructure)
		}
		if p.current() == nil {
			return fmt.Errorf("%w: End Site outside of ROOT", ErrStructure)
		}
		// "{", "OFFSET x y z", "}"
		p.skipLines = 3
	case "{":
	case "}":
		if len(p.stack) == 0 {
			return fmt.Errorf("%w: unbalanced '}'", ErrStructure)
		}
		p.stack = p.stack[:len(p.stack)-1]
	case "OFFSET":
		target := p.current()
		if target == nil {
			return fmt.Errorf("%w: OFFSET outside of ROOT", ErrStructure)
		}
		if len(words) < 4 {
			return fmt.Errorf("%w: OFFSET needs 3 values", ErrStructure)
		}
		var v [3]float32
		for i := range v {
			f, err := parseFloat(words[i+1])
			if err != nil {
				return err
			}
			v[i] = f
		}
		target.Offset = Vector3{X: v[0], Y: v[1], Z: v[2]}
	case "CHANNELS":
		target := p.current()
		if target == nil {
			return fmt.Errorf("%w: CHANNELS outside of ROOT", ErrStructure)
		}
		if len(words) < 2 {
			return fmt.Errorf("%w: CHANNELS without count", ErrStructure)
		}
		n, err := parseInt(words[1])
		if err != nil {
			return err
		}
		if n < 0 || len(words)-2 < n {
			return fmt.Errorf("%w: CHANNELS %d with %d names", ErrStructure, n, len(words)-2)
		}
		for _, w := range words[2 : 2+n] {
			ch, ok := ParseChannel(w)
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnrecognizedChannel, w)
			}
			target.Channels = append(target.Channels, ch)
		}
	default:
		log.Printf("bvh: skip %s", words[0])
	}
	return nil
}

func (p *Parser) parseMotion(words []string) error {
	if !p.hasFrames || !p.hasFrameTime {
		return p.parseMotionHeader(words)
	}
	return p.parseSamples(words)
}

func (p *Parser) parseMotionHeader(words []string) error {
	var frames, frameTime string
	switch {
	case len(words) >= 2 && words[0] == "Frames:":
		frames = words[1]
	case len(words) >= 3 && words[0] == "Frames" && words[1] == ":":
		frames = words[2]
	case len(words) >= 3 && words[0] == "Frame" && words[1] == "Time:":
		frameTime = words[2]
	case len(words) >= 4 && words[0] == "Frame" && words[1] == "Time" && words[2] == ":":
		frameTime = words[3]
	default:
		if _, err := strconv.ParseFloat(words[0], 32); err == nil {
			return ErrIncompleteMotionHeader
		}
		log.Printf("bvh: skip %s", words[0])
		return nil
	}

	if frames != "" {
		n, err := parseInt(frames)
		if err != nil {
			return err
		}
		if n < 0 || n > maxFrameCount {
			return fmt.Errorf("%w: frame count %d out of range", ErrStructure, n)
		}
		p.doc.FrameCount = n
		p.hasFrames = true
	} else {
		t, err := parseFloat(frameTime)
		if err != nil {
			return err
		}
		p.doc.FrameTime = t
		p.hasFrameTime = true
	}
	return nil
}

func (p *Parser) parseSamples(words []string) error {
	if len(words) < p.channels {
		// not enough values for a frame (e.g. garbage after the last frame)
		return nil
	}
	if p.frame >= p.doc.FrameCount {
		if !p.overflow {
			log.Printf("bvh: ignore sample lines after %d frames", p.doc.FrameCount)
			p.overflow = true
		}
		return nil
	}

	i := 0
	for _, j := range p.doc.Joints {
		var pos, rot Vector3
		for _, ch := range j.Channels {
			v, err := parseFloat(words[i])
			if err != nil {
				return err
			}
			i++
			if ch.IsPosition() {
				pos.Set(ch.Axis(), v)
			} else {
				rot.Set(ch.Axis(), v)
			}
		}
		j.appendSample(pos, rot)
	}
	p.frame++
	return nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumberFormat, s)
	}
	return float32(v), nil
}

func parseInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumberFormat, s)
	}
	return v, nil
}

// Parse reads a BVH document from r.
func Parse(r io.Reader) (*Document, error) {
	return NewParser(r).Parse()
}

// Load reads a BVH file.
func Load(path string) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return NewParser(r).Parse()
}
