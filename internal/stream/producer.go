// Package stream serializes the active aggregate into an incrementally
// consumable sequence of article batches. The sequence is finite and not
// restartable: a consumer that loses the channel mid-stream must treat
// everything received so far as provisional and start over.
package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/khabarhub/newsdesk/internal/logger"
	"github.com/khabarhub/newsdesk/internal/models"
	"github.com/khabarhub/newsdesk/internal/newsstore"
)

// ErrStreamInterrupted is surfaced when the producer stops before the
// end-of-stream signal, either from cancellation or a load failure.
var ErrStreamInterrupted = errors.New("stream interrupted")

// Batch is one chunk of the feed, in store order.
type Batch struct {
	Section string           `json:"section"`
	Items   []models.Article `json:"items"`
}

// Producer walks a snapshot of the aggregate section by section.
type Producer struct {
	repo      newsstore.Repository
	batchSize int
}

func NewProducer(repo newsstore.Repository, batchSize int) *Producer {
	if batchSize < 1 {
		batchSize = 10
	}
	return &Producer{repo: repo, batchSize: batchSize}
}

// Stream emits batches on the returned channel; the channel closing is the
// end-of-stream signal. A failure mid-stream is reported on the error
// channel as ErrStreamInterrupted and the batch channel closes without the
// sequence being complete.
func (p *Producer) Stream(ctx context.Context) (<-chan Batch, <-chan error) {
	batches := make(chan Batch)
	errc := make(chan error, 1)

	go func() {
		defer close(batches)
		defer close(errc)

		agg, err := p.repo.Active(ctx)
		if err != nil {
			logger.Get().Error().Err(err).Msg("Stream failed to snapshot aggregate")
			errc <- fmt.Errorf("%w: %v", ErrStreamInterrupted, err)
			return
		}
		if agg == nil {
			return
		}

		sent := 0
		for _, section := range models.Sections {
			items, ok := agg.List(section)
			if !ok || len(items) == 0 {
				continue
			}
			for start := 0; start < len(items); start += p.batchSize {
				end := start + p.batchSize
				if end > len(items) {
					end = len(items)
				}
				select {
				case <-ctx.Done():
					logger.Get().Warn().
						Str("section", section).
						Int("batches_sent", sent).
						Msg("Stream cancelled by consumer")
					errc <- fmt.Errorf("%w: %v", ErrStreamInterrupted, ctx.Err())
					return
				case batches <- Batch{Section: section, Items: items[start:end]}:
					sent++
				}
			}
		}

		logger.Get().Debug().Int("batches", sent).Msg("Stream complete")
	}()

	return batches, errc
}
