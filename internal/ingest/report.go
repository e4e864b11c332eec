package ingest

import (
	"fmt"

	"github.com/google/uuid"
)

// Only the first maxReportErrors messages are kept for display,
// RecordsFailed always carries the true total.
const maxReportErrors = 100

// Report accumulates per-row outcomes across a whole upload.
// RecordsCreated counts upserted records, inserts and updates alike.
type Report struct {
	UploadID         uuid.UUID `json:"upload_id"`
	Message          string    `json:"message"`
	RecordsProcessed int       `json:"records_processed"`
	RecordsCreated   int       `json:"records_created"`
	RecordsFailed    int       `json:"records_failed"`
	Errors           []string  `json:"errors,omitempty"`
}

func newReport(uploadID uuid.UUID) *Report {
	return &Report{UploadID: uploadID}
}

func (r *Report) rowProcessed() {
	r.RecordsProcessed++
}

func (r *Report) rowFailed(reason string) {
	r.RecordsFailed++
	if len(r.Errors) < maxReportErrors {
		r.Errors = append(r.Errors, reason)
	}
}

func (r *Report) batchCommitted(upserted int) {
	r.RecordsCreated += upserted
}

func (r *Report) batchFailed(rows int, err error) {
	r.RecordsFailed += rows
	if len(r.Errors) < maxReportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("Batch insert failed: %s", err))
	}
}
