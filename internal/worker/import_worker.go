package worker

// import_worker.go
// Processes device scan batches from QueueScanImport. Scanning terminals
// push their line-delimited event records here when the doc they target is
// not open in an interactive session; the importer applies the same
// resolution rules as the synchronous endpoint.

import (
	"context"
	"encoding/json"

	"github.com/naskek/FlowStock-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ScanImporter is implemented by the import service; declared here so the
// worker package does not depend on service wiring.
type ScanImporter interface {
	Import(ctx context.Context, docID uuid.UUID, records []dto.ImportRecord) (*dto.ImportReport, error)
}

type ImportWorker struct {
	importer ScanImporter
}

func NewImportWorker(importer ScanImporter) *ImportWorker {
	return &ImportWorker{importer: importer}
}

func (w *ImportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload dto.ImportRequest
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("import_worker: invalid payload")
		return
	}
	docID, err := uuid.Parse(payload.DocID)
	if err != nil {
		log.Error().Str("doc_id", payload.DocID).Msg("import_worker: invalid doc_id")
		return
	}

	report, err := w.importer.Import(ctx, docID, payload.Records)
	if err != nil {
		log.Error().Err(err).Str("doc_id", payload.DocID).Msg("import_worker: batch failed")
		return
	}
	log.Info().
		Str("doc_id", payload.DocID).
		Int("imported", report.Imported).
		Int("duplicates", report.Duplicates).
		Int("errors", len(report.Errors)).
		Msg("import_worker: batch processed")
}
