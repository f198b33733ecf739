package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stamp/pkg/compression"
	apperrors "github.com/stamp/pkg/errors"
)

const yamlDoc = `
classes:
  - name: com/example/Foo
    obf_name: a
    super: com/example/Base
    interfaces: [java/lang/Runnable]
    fields:
      - name: count
        desc: I
        obf_name: b
    methods:
      - name: run
        desc: ()V
        annotations:
          - desc: Lwtf/pants/stamp/annotations/StampPreserve;
  - name: com/example/Base
    library: true
`

func TestRead_YAML(t *testing.T) {
	doc, err := Read(strings.NewReader(yamlDoc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Classes, 2)

	foo := doc.Classes[0]
	assert.Equal(t, "com/example/Foo", foo.Name)
	assert.Equal(t, "a", foo.ObfName)
	assert.Equal(t, "com/example/Base", foo.Super)
	assert.Equal(t, []string{"java/lang/Runnable"}, foo.Interfaces)
	assert.Nil(t, foo.Library)
	require.Len(t, foo.Fields, 1)
	assert.Equal(t, "b", foo.Fields[0].ObfName)
	require.Len(t, foo.Methods, 1)
	assert.Equal(t, "run()V", foo.Methods[0].ShortID())
	require.Len(t, foo.Methods[0].Annotations, 1)
	assert.Equal(t, "Lwtf/pants/stamp/annotations/StampPreserve;", foo.Methods[0].Annotations[0].Desc)

	base, ok := doc.Find("com/example/Base")
	require.True(t, ok)
	require.NotNil(t, base.Library)
	assert.True(t, *base.Library)
}

func TestRead_JSON(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"classes":[{"name":"a/B","methods":[{"name":"<init>","desc":"()V"}]}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, doc.Classes, 1)
	assert.Equal(t, "<init>()V", doc.Classes[0].Methods[0].ShortID())
}

func TestRead_EmptyYAML(t *testing.T) {
	doc, err := Read(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, doc.Classes)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  Format
		wantErr string
	}{
		{name: "bad json", input: `{"classes":`, format: FormatJSON, wantErr: "failed to decode JSON"},
		{name: "unknown json field", input: `{"classes":[{"name":"a/B","access":1}]}`, format: FormatJSON, wantErr: "failed to decode JSON"},
		{name: "unknown yaml field", input: "classes:\n  - name: a/B\n    access: 1\n", format: FormatYAML, wantErr: "failed to decode YAML"},
		{name: "missing class name", input: `{"classes":[{"name":""}]}`, format: FormatJSON, wantErr: "has no name"},
		{name: "dotted class name", input: `{"classes":[{"name":"a.B"}]}`, format: FormatJSON, wantErr: "internal form"},
		{name: "duplicate class", input: `{"classes":[{"name":"a/B"},{"name":"a/B"}]}`, format: FormatJSON, wantErr: "declared twice"},
		{name: "field without name", input: `{"classes":[{"name":"a/B","fields":[{"desc":"I"}]}]}`, format: FormatJSON, wantErr: "field without a name"},
		{name: "method without desc", input: `{"classes":[{"name":"a/B","methods":[{"name":"run"}]}]}`, format: FormatJSON, wantErr: "method without name or descriptor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, apperrors.IsParseError(err))
		})
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := Read(strings.NewReader(""), Format("xml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classes.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Classes, 2)

	_, err = ReadFile(filepath.Join(dir, "classes.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported descriptor file extension")

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open descriptor file")
}

func TestReadFile_Compressed(t *testing.T) {
	dir := t.TempDir()

	for _, typ := range []compression.Type{compression.TypeGzip, compression.TypeZstd} {
		path := filepath.Join(dir, "classes.yaml"+typ.Extension())

		var buf bytes.Buffer
		w, err := compression.NewWriter(&buf, typ, compression.LevelDefault)
		require.NoError(t, err)
		_, err = w.Write([]byte(yamlDoc))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

		doc, err := ReadFile(path)
		require.NoError(t, err, typ.String())
		assert.Len(t, doc.Classes, 2)
	}

	corrupt := filepath.Join(dir, "broken.json.gz")
	require.NoError(t, os.WriteFile(corrupt, []byte{0x1f, 0x8b, 0x00}, 0644))
	_, err := ReadFile(corrupt)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
}
