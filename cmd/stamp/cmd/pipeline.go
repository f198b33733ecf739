package cmd

import (
	"context"
	"fmt"

	"github.com/stamp/internal/session"
	"github.com/stamp/internal/source"
	"github.com/stamp/pkg/config"
	"github.com/stamp/pkg/filter"
	"github.com/stamp/pkg/mapping"
	"github.com/stamp/pkg/utils"
)

// newClassFilter applies the configured prefixes on top of the defaults.
func newClassFilter(cfg *config.MappingConfig) *filter.ClassFilter {
	f := filter.NewClassFilterWithCache(cfg.FilterCacheSize)
	f.AddLibraryPrefixes(cfg.LibraryPrefixes)
	f.AddApplicationPrefixes(cfg.ApplicationPrefixes)
	return f
}

// buildSession reads a descriptor document and builds its session.
func buildSession(ctx context.Context, cfg *config.MappingConfig, logger utils.Logger, input string) (*source.Document, *session.Session, error) {
	doc, err := source.ReadFile(input)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid descriptor document %s: %w", input, err)
	}

	policy := mapping.RejectDuplicates
	if cfg.AllowDuplicateMembers {
		policy = mapping.AllowDuplicates
	}

	b := &session.Builder{
		Filter:  newClassFilter(cfg),
		Logger:  logger,
		Policy:  policy,
		Workers: cfg.Workers,
	}
	sess, err := b.Build(ctx, doc)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Mapped %d classes from %s", sess.Len(), input)
	return doc, sess, nil
}
