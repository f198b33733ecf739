package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

var sample = []byte(strings.Repeat("CL: com/example/Foo a\nFD: com/example/Foo/count a/a\n", 50))

func roundTrip(t *testing.T, typ Type, level Level) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := NewWriter(&buf, typ, level)
	if err != nil {
		t.Fatalf("NewWriter(%s) failed: %v", typ, err)
	}
	if _, err := w.Write(sample); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r, detected, err := NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	if detected != typ {
		t.Errorf("Expected %s, detected %s", typ, detected)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(sample, out) {
		t.Error("Decompressed data doesn't match original")
	}
	return buf.Bytes()
}

func TestGzipRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelFastest, LevelDefault, LevelBest} {
		compressed := roundTrip(t, TypeGzip, level)
		if len(compressed) >= len(sample) {
			t.Errorf("level %d: expected compression, got %d >= %d bytes", level, len(compressed), len(sample))
		}
	}
}

func TestZstdRoundTrip(t *testing.T) {
	for _, level := range []Level{LevelFastest, LevelDefault, LevelBest} {
		compressed := roundTrip(t, TypeZstd, level)
		if len(compressed) >= len(sample) {
			t.Errorf("level %d: expected compression, got %d >= %d bytes", level, len(compressed), len(sample))
		}
	}
}

func TestNoneRoundTrip(t *testing.T) {
	compressed := roundTrip(t, TypeNone, LevelDefault)
	if !bytes.Equal(sample, compressed) {
		t.Error("TypeNone should pass data through")
	}
}

func TestNewWriter_UnknownType(t *testing.T) {
	if _, err := NewWriter(io.Discard, Type(42), LevelDefault); err == nil {
		t.Error("Expected error for unknown type")
	}
}

func TestNewReader_ShortInput(t *testing.T) {
	r, typ, err := NewReader(strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if typ != TypeNone {
		t.Errorf("Expected TypeNone, got %s", typ)
	}
	out, _ := io.ReadAll(r)
	if string(out) != "{}" {
		t.Errorf("Expected passthrough, got %q", out)
	}
}

func TestNewReader_CorruptGzip(t *testing.T) {
	if _, _, err := NewReader(bytes.NewReader([]byte{0x1f, 0x8b, 0x00})); err == nil {
		t.Error("Expected error for truncated gzip header")
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Type
	}{
		{"zstd", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, TypeZstd},
		{"gzip", []byte{0x1f, 0x8b, 0x08}, TypeGzip},
		{"json", []byte(`{"classes":[]}`), TypeNone},
		{"empty", nil, TypeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectType(tt.data); got != tt.want {
				t.Errorf("DetectType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTypeFromPath(t *testing.T) {
	tests := []struct {
		path     string
		wantType Type
		wantRest string
	}{
		{"classes.json.gz", TypeGzip, "classes.json"},
		{"dir/classes.YAML.ZST", TypeZstd, "dir/classes.YAML"},
		{"classes.yaml", TypeNone, "classes.yaml"},
	}
	for _, tt := range tests {
		typ, rest := TypeFromPath(tt.path)
		if typ != tt.wantType || rest != tt.wantRest {
			t.Errorf("TypeFromPath(%q) = (%s, %q), want (%s, %q)", tt.path, typ, rest, tt.wantType, tt.wantRest)
		}
	}
}
