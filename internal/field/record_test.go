package field

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	vals := []float32{1.5, -2, 0, 3.25}

	if err := WriteFloat32Record(&buf, vals); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.Len() != 4+16+4 {
		t.Errorf("expected 24 bytes, got %d", buf.Len())
	}

	got, err := ReadFloat32Record(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	for i := range vals {
		if got[i] != vals[i] {
			t.Errorf("value %d: expected %v, got %v", i, vals[i], got[i])
		}
	}

	if _, err := ReadRecord(&buf); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestInt32Record(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteInt32Record(&buf, []int32{7, -1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadInt32Record(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 2 || got[0] != 7 || got[1] != -1 {
		t.Errorf("unexpected values %v", got)
	}
}

func TestReadRecordCorrupt(t *testing.T) {
	le := binary.LittleEndian

	mismatch := make([]byte, 12)
	le.PutUint32(mismatch[0:], 4)
	le.PutUint32(mismatch[8:], 8)

	short := make([]byte, 6)
	le.PutUint32(short[0:], 16)

	huge := make([]byte, 4)
	le.PutUint32(huge, 0xFFFFFFFF)

	overlong := make([]byte, 12)
	le.PutUint32(overlong[0:], 1<<30)

	odd := make([]byte, 11)
	le.PutUint32(odd[0:], 3)
	le.PutUint32(odd[7:], 3)

	tests := []struct {
		name string
		data []byte
	}{
		{"trailer mismatch", mismatch},
		{"short payload", short},
		{"huge length", huge},
		{"length past end of data", overlong},
		{"truncated header", []byte{1, 2}},
		{"not float32", odd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFloat32Record(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrRecord) {
				t.Errorf("expected ErrRecord, got %v", err)
			}
		})
	}
}

func TestReadRecordLengthPastEndOfFile(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data, 0x7FFFFFF0)
	if err := os.WriteFile(filepath.Join(dir, "z_qu.bin"), data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(dir).LoadVector("z_qu.bin")
	if !errors.Is(err, ErrRecord) {
		t.Fatalf("expected ErrRecord, got %v", err)
	}
}
