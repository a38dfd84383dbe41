package mmd

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

type baseParser struct {
	r   io.Reader
	err error
}

func (p *baseParser) read(v interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.err = binary.Read(p.r, binary.LittleEndian, v)
	return p.err
}

func (p *baseParser) readInt() int {
	var v uint32
	p.read(&v)
	return int(v)
}

func (p *baseParser) readFloat() float32 {
	var v float32
	p.read(&v)
	return v
}

func (p *baseParser) readString(len int) string {
	b := make([]byte, len)
	if p.read(b) != nil {
		return ""
	}
	utf8Data, _, _ := transform.Bytes(japanese.ShiftJIS.NewDecoder(), bytes.SplitN(b, []byte{0}, 2)[0])
	return string(utf8Data)
}

type baseWriter struct {
	w   io.Writer
	err error
}

func (p *baseWriter) write(v interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.err = binary.Write(p.w, binary.LittleEndian, v)
	return p.err
}

func (p *baseWriter) writeInt(v int) {
	p.write(uint32(v))
}

// writeString writes s as Shift_JIS in a zero padded field of size bytes.
func (p *baseWriter) writeString(s string, size int) {
	p.write(encodeString(s, size))
}

func isShiftJISLeadByte(b byte) bool {
	return b >= 0x81 && b <= 0x9f || b >= 0xe0 && b <= 0xfc
}

func encodeString(s string, size int) []byte {
	b, _, err := transform.Bytes(encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()), []byte(s))
	if err != nil {
		b = []byte(s)
	}
	n := 0
	for n < len(b) {
		l := 1
		if isShiftJISLeadByte(b[n]) {
			l = 2
		}
		if n+l > size {
			break
		}
		n += l
	}
	dst := make([]byte, size)
	copy(dst, b[:n])
	return dst
}
