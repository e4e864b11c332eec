package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/wellywell/orderhub/internal/csvparse"
	"github.com/wellywell/orderhub/internal/types"
)

const DefaultBatchSize = 1000

// Store is the storage half of the ingestion pipeline. UpsertOrders must
// apply the whole batch atomically keyed on order_id, or none of it.
type Store interface {
	UpsertOrders(ctx context.Context, orders []types.Order) error
}

var ErrEmptyFile = errors.New("file is empty")

// Processor streams a CSV upload through validation and batched upserts.
// Memory is bounded to one batch of validated rows regardless of file size.
type Processor struct {
	store     Store
	batchSize int
}

func NewProcessor(store Store, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Processor{
		store:     store,
		batchSize: batchSize,
	}
}

// Run consumes the whole file and returns the upload report. A non-nil
// error means a structural failure (unreadable stream, missing columns,
// cancellation) before or instead of normal completion; row-level and
// batch-level failures are accounted inside the report only.
func (p *Processor) Run(ctx context.Context, uploadID uuid.UUID, file io.Reader) (*Report, error) {

	log := logger.WithField("upload_id", uploadID)

	reader := csv.NewReader(file)
	// rows with too few fields are handled as row failures, not csv errors
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	cols, err := csvparse.Header(header)
	if err != nil {
		return nil, err
	}

	report := newReport(uploadID)
	batch := make([]types.Order, 0, p.batchSize)

	// header is line 1
	line := 1
	for {
		select {
		case <-ctx.Done():
			// committed batches stay committed, we just stop consuming
			log.Warn("Upload cancelled, stopping")
			return report, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			// parse errors are per-row failures, anything else means the
			// stream itself is broken and the upload cannot continue
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return report, fmt.Errorf("error reading file: %w", err)
			}
			// quoted fields may span physical lines, so the reader's own
			// line number is authoritative here, not the record count
			report.rowProcessed()
			report.rowFailed(fmt.Sprintf("Row %d: %s", parseErr.Line, parseErr.Err))
			continue
		}

		report.rowProcessed()
		order, err := csvparse.Row(cols, record, line)
		if err != nil {
			report.rowFailed(err.Error())
			continue
		}

		batch = append(batch, order)
		if len(batch) >= p.batchSize {
			p.flush(ctx, log, batch, report)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		p.flush(ctx, log, batch, report)
	}

	log.Infof("CSV upload completed. Created: %d, Failed: %d",
		report.RecordsCreated, report.RecordsFailed)

	report.Message = "CSV processing completed"
	return report, nil
}

func (p *Processor) flush(ctx context.Context, log *logger.Entry, batch []types.Order, report *Report) {

	deduped := Deduplicate(batch)

	if err := p.store.UpsertOrders(ctx, deduped); err != nil {
		log.Errorf("Batch of %d rows failed: %s", len(batch), err)
		report.batchFailed(len(batch), err)
		return
	}
	report.batchCommitted(len(deduped))
}
