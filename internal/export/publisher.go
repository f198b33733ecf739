package export

import (
	"context"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stamp/internal/storage"
	"github.com/stamp/pkg/utils"
)

var tracer = otel.Tracer("github.com/stamp/internal/export")

// Publisher uploads exported files to object storage.
type Publisher struct {
	storage storage.Storage
	prefix  string
	logger  utils.Logger
}

// NewPublisher creates a publisher writing below prefix.
func NewPublisher(store storage.Storage, prefix string, logger utils.Logger) *Publisher {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Publisher{storage: store, prefix: prefix, logger: logger}
}

// Key returns the object key of a file exported for a snapshot.
func (p *Publisher) Key(snapshotID, localPath string) string {
	return storage.JoinKey(p.prefix, snapshotID, filepath.Base(localPath))
}

// Publish uploads each file to <prefix>/<snapshotID>/<file name> and returns
// their URLs in the same order.
func (p *Publisher) Publish(ctx context.Context, snapshotID string, files ...string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "export.Publish")
	defer span.End()
	span.SetAttributes(
		attribute.String("stamp.snapshot_id", snapshotID),
		attribute.Int("stamp.files", len(files)),
	)

	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := p.Key(snapshotID, f)
		if err := p.storage.UploadFile(ctx, key, f); err != nil {
			span.RecordError(err)
			return urls, fmt.Errorf("failed to publish %s: %w", f, err)
		}
		url := p.storage.GetURL(key)
		p.logger.WithField("key", key).Info("Published %s", url)
		urls = append(urls, url)
	}
	return urls, nil
}
