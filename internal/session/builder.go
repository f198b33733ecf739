package session

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/stamp/internal/source"
	"github.com/stamp/pkg/filter"
	"github.com/stamp/pkg/mapping"
	"github.com/stamp/pkg/utils"
)

var tracer = otel.Tracer("github.com/stamp/internal/session")

// Builder populates a Session from a descriptor document.
type Builder struct {
	// Filter decides which classes are library classes. Nil uses filter.IsLibrary.
	Filter *filter.ClassFilter
	// Logger receives member insertion events. Nil disables them.
	Logger utils.Logger
	// Policy is applied to every ClassMap.
	Policy mapping.DuplicatePolicy
	// Workers bounds concurrent class construction. Values below 1 mean 1.
	Workers int
}

// Build creates one ClassMap per descriptor. Each ClassMap is constructed by
// exactly one goroutine and registered only after all workers finished, in
// document order.
func (b *Builder) Build(ctx context.Context, doc *source.Document) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.Build")
	defer span.End()
	span.SetAttributes(attribute.Int("stamp.classes", len(doc.Classes)))

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	built := make([]*mapping.ClassMap, len(doc.Classes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range doc.Classes {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := b.buildClass(&doc.Classes[i])
			if err != nil {
				return err
			}
			built[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	sess := New()
	for _, c := range built {
		if err := sess.Add(c); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (b *Builder) buildClass(d *source.ClassDescriptor) (*mapping.ClassMap, error) {
	opts := []mapping.Option{mapping.WithDuplicatePolicy(b.Policy)}
	if b.Logger != nil {
		opts = append(opts, mapping.WithObserver(LoggingObserver(b.Logger)))
	}

	c := mapping.NewClassMap(d.Name, opts...)
	c.SetObfName(d.ObfName)
	c.SetParent(d.Super)
	c.SetInterfaces(d.Interfaces)

	switch {
	case d.Library != nil:
		c.SetLibrary(*d.Library)
	case b.Filter != nil:
		c.SetLibrary(b.Filter.IsLibrary(d.Name))
	default:
		c.SetLibrary(filter.IsLibrary(d.Name))
	}

	for _, fd := range d.Fields {
		f := mapping.NewFieldMapping(d.Name, fd.Name, fd.Desc)
		f.SetObfName(fd.ObfName)
		if _, err := c.AddField(f); err != nil {
			return nil, fmt.Errorf("failed to map class %s: %w", d.Name, err)
		}
	}
	for _, md := range d.Methods {
		m := mapping.NewMethodMapping(d.Name, md.Name, md.Desc)
		m.SetObfName(md.ObfName)
		if _, err := c.AddMethod(m); err != nil {
			return nil, fmt.Errorf("failed to map class %s: %w", d.Name, err)
		}
	}
	return c, nil
}
