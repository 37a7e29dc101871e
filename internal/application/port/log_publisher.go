package port

import (
	"context"

	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

// LogPublisher sends log entries to an external log platform.
// It plugs into the logger via logger.SetPublisher.
type LogPublisher interface {
	logger.Publisher

	// PublishBatch sends several entries in one call.
	PublishBatch(ctx context.Context, entries []logger.Entry) error

	// Flush publishes anything still buffered. Call it on shutdown.
	Flush(ctx context.Context) error
}
