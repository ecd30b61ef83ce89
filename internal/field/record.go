package field

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	// ErrRecord reports a Fortran record whose length markers disagree or
	// that ends early.
	ErrRecord = errors.New("malformed record")
	// ErrShape reports a value count that does not match the grid.
	ErrShape = errors.New("unexpected value count")
)

// maxRecord bounds the record length accepted from readers whose size is
// unknown. Files and in-memory readers are bounded by what they hold.
const maxRecord = 1 << 31

// ReadRecord reads one Fortran unformatted sequential record:
// uint32 length, payload, uint32 length, little endian.
func ReadRecord(r io.Reader) ([]byte, error) {
	var head uint32
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: header: %v", ErrRecord, err)
	}
	if int64(head) > maxRecord {
		return nil, fmt.Errorf("%w: length %d exceeds limit", ErrRecord, head)
	}
	if left := remaining(r); left >= 0 && int64(head)+4 > left {
		return nil, fmt.Errorf("%w: length %d exceeds the %d bytes left", ErrRecord, head, left)
	}

	payload := make([]byte, head)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: payload of %d bytes: %v", ErrRecord, head, err)
	}

	var tail uint32
	if err := binary.Read(r, binary.LittleEndian, &tail); err != nil {
		return nil, fmt.Errorf("%w: trailer: %v", ErrRecord, err)
	}
	if tail != head {
		return nil, fmt.Errorf("%w: header %d != trailer %d", ErrRecord, head, tail)
	}
	return payload, nil
}

// remaining reports how many bytes r can still deliver, or -1 if unknown.
func remaining(r io.Reader) int64 {
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len())
	case *os.File:
		fi, err := v.Stat()
		if err != nil || !fi.Mode().IsRegular() {
			return -1
		}
		pos, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return fi.Size() - pos
	}
	return -1
}

func ReadFloat32Record(r io.Reader) ([]float32, error) {
	payload, err := ReadRecord(r)
	if err != nil {
		return nil, err
	}
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a float32 array", ErrRecord, len(payload))
	}
	vals := make([]float32, len(payload)/4)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	return vals, nil
}

func ReadInt32Record(r io.Reader) ([]int32, error) {
	payload, err := ReadRecord(r)
	if err != nil {
		return nil, err
	}
	if len(payload)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not an int32 array", ErrRecord, len(payload))
	}
	vals := make([]int32, len(payload)/4)
	for i := range vals {
		vals[i] = int32(binary.LittleEndian.Uint32(payload[i*4:]))
	}
	return vals, nil
}

func WriteRecord(w io.Writer, payload []byte) error {
	n := uint32(len(payload))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, n)
}

func WriteFloat32Record(w io.Writer, vals []float32) error {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(payload[i*4:], math.Float32bits(v))
	}
	return WriteRecord(w, payload)
}

func WriteInt32Record(w io.Writer, vals []int32) error {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(payload[i*4:], uint32(v))
	}
	return WriteRecord(w, payload)
}
