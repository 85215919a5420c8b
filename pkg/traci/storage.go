package traci

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// writer builds the content of one command. all values are big-endian.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) writeUbyte(v byte) {
	w.buf.WriteByte(v)
}

func (w *writer) writeInt(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

func (w *writer) writeDouble(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

func (w *writer) writeString(s string) {
	w.writeInt(int32(len(s)))
	w.buf.WriteString(s)
}

func (w *writer) writeStringList(list []string) {
	w.writeInt(int32(len(list)))
	for _, s := range list {
		w.writeString(s)
	}
}

func (w *writer) bytes() []byte {
	return w.buf.Bytes()
}

// writeCommand frames cmdID+content with the short (ubyte) or the extended (0 + int32) length.
func (w *writer) writeCommand(cmdID byte, content []byte) {
	if 1+1+len(content) <= math.MaxUint8 {
		w.writeUbyte(byte(1 + 1 + len(content)))
	} else {
		w.writeUbyte(0)
		w.writeInt(int32(1 + 4 + 1 + len(content)))
	}
	w.writeUbyte(cmdID)
	w.buf.Write(content)
}

var errShortRead = errors.New("traci message truncated")

// reader decodes a received message. the first failure sticks and every later read returns zero values.
type reader struct {
	data []byte
	pos  int
	err  error
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = errShortRead
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) readUbyte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readInt() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (r *reader) readDouble() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

func (r *reader) readString() string {
	n := r.readInt()
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *reader) readStringList() []string {
	n := r.readInt()
	if r.err != nil || n < 0 {
		return nil
	}
	list := make([]string, 0, n)
	for i := int32(0); i < n && r.err == nil; i++ {
		list = append(list, r.readString())
	}
	return list
}

// readCommandHeader returns the command id and the length of its content.
func (r *reader) readCommandHeader() (byte, int) {
	length := int(r.readUbyte())
	headerLen := 2
	if length == 0 {
		length = int(r.readInt())
		headerLen = 6
	}
	return r.readUbyte(), length - headerLen
}

func (r *reader) expectType(want byte) {
	if got := r.readUbyte(); r.err == nil && got != want {
		r.err = fmt.Errorf("expected value type 0x%02x, got 0x%02x", want, got)
	}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}
