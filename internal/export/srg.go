package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/stamp/pkg/model"
)

// SRGWriter writes a snapshot as an SRG mapping table:
//
//	CL: com/example/Foo a
//	FD: com/example/Foo/count a/a
//	MD: com/example/Foo/run (Lcom/example/Foo;)V a/b (La;)V
//
// Only renamed entries are written and library classes are skipped.
// Method descriptors are rewritten with the obfuscated class names.
type SRGWriter struct{}

// Write encodes the snapshot.
func (w *SRGWriter) Write(snap *model.MappingSnapshot, out io.Writer) error {
	renames := make(map[string]string)
	for _, c := range snap.Classes {
		if c.IsObfuscated() {
			renames[c.Name] = c.ObfName
		}
	}

	bw := bufio.NewWriter(out)
	for _, c := range snap.Classes {
		if c.Library {
			continue
		}
		owner := c.Name
		if c.IsObfuscated() {
			owner = c.ObfName
			fmt.Fprintf(bw, "CL: %s %s\n", c.Name, c.ObfName)
		}
		for _, f := range c.Fields {
			if !f.IsObfuscated() {
				continue
			}
			fmt.Fprintf(bw, "FD: %s/%s %s/%s\n", c.Name, f.Name, owner, f.ObfName)
		}
		for _, m := range c.Methods {
			if !m.IsObfuscated() {
				continue
			}
			fmt.Fprintf(bw, "MD: %s/%s %s %s/%s %s\n",
				c.Name, m.Name, m.Desc, owner, m.ObfName, RemapDescriptor(m.Desc, renames))
		}
	}
	return bw.Flush()
}

// Extension returns ".srg".
func (w *SRGWriter) Extension() string { return ".srg" }

// RemapDescriptor replaces every class reference "L<name>;" in a field or
// method descriptor whose name has an entry in renames.
func RemapDescriptor(desc string, renames map[string]string) string {
	var b strings.Builder
	b.Grow(len(desc))

	for i := 0; i < len(desc); i++ {
		if desc[i] != 'L' {
			b.WriteByte(desc[i])
			continue
		}
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			b.WriteString(desc[i:])
			break
		}
		name := desc[i+1 : i+end]
		if obf, ok := renames[name]; ok {
			name = obf
		}
		b.WriteByte('L')
		b.WriteString(name)
		b.WriteByte(';')
		i += end
	}
	return b.String()
}
