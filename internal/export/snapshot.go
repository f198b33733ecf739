// Package export turns a mapping session into files: a JSON snapshot
// (optionally gzipped) or an SRG mapping table, and publishes them to
// object storage.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/stamp/internal/session"
	apperrors "github.com/stamp/pkg/errors"
	"github.com/stamp/pkg/mapping"
	"github.com/stamp/pkg/model"
	"github.com/stamp/pkg/utils"
	"github.com/stamp/pkg/writer"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatGzip Format = "gzip"
	FormatZstd Format = "zstd"
	FormatSRG  Format = "srg"
)

// BuildSnapshot copies every class of the session, in session order.
func BuildSnapshot(sess *session.Session, id string, clock utils.Clock) *model.MappingSnapshot {
	if clock == nil {
		clock = utils.NewRealClock()
	}

	classes := sess.Classes()
	snap := &model.MappingSnapshot{
		ID:        id,
		CreatedAt: clock.Now(),
		Classes:   make([]model.ClassEntry, 0, len(classes)),
	}
	for _, c := range classes {
		snap.Classes = append(snap.Classes, classEntry(c))
	}
	snap.Stats = snap.ComputeStats()
	return snap
}

func classEntry(c *mapping.ClassMap) model.ClassEntry {
	e := model.ClassEntry{
		Name:       c.Name(),
		Interfaces: c.Interfaces(),
		Library:    c.IsLibrary(),
	}
	e.ObfName, _ = c.ObfName()
	e.Parent, _ = c.Parent()
	if len(e.Interfaces) == 0 {
		e.Interfaces = nil
	}

	for _, f := range c.Fields() {
		obf, _ := f.ObfName()
		e.Fields = append(e.Fields, model.MemberEntry{
			Name:      f.Name(),
			Desc:      f.Desc(),
			ObfName:   obf,
			Preserved: f.Preserved(),
		})
	}
	for _, m := range c.Methods() {
		obf, _ := m.ObfName()
		e.Methods = append(e.Methods, model.MemberEntry{
			Name:      m.Name(),
			Desc:      m.Desc(),
			ObfName:   obf,
			Preserved: m.Preserved(),
		})
	}
	return e
}

// WriterFor returns the encoder for a format.
func WriterFor(format Format, pretty bool) (writer.Writer[*model.MappingSnapshot], error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatJSON, "":
		if pretty {
			return writer.NewPrettyJSONWriter[*model.MappingSnapshot](), nil
		}
		return writer.NewJSONWriter[*model.MappingSnapshot](), nil
	case FormatGzip:
		return writer.NewGzipWriter[*model.MappingSnapshot](), nil
	case FormatZstd:
		return writer.NewZstdWriter[*model.MappingSnapshot](), nil
	case FormatSRG:
		return &SRGWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteSnapshot writes the snapshot into dir as "<id><ext>".
func WriteSnapshot(ctx context.Context, snap *model.MappingSnapshot, w writer.Writer[*model.MappingSnapshot], dir string) (*writer.WriteResult, error) {
	_, span := tracer.Start(ctx, "export.WriteSnapshot")
	defer span.End()

	path := filepath.Join(dir, snap.ID+w.Extension())
	res, err := writer.WriteFile(w, snap, path)
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.Wrap(apperrors.CodeExportError, "failed to write "+path, err)
	}
	span.SetAttributes(attribute.Int64("stamp.bytes", res.Size))
	return res, nil
}
