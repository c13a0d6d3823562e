package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/revenueguard/analyzer/internal/adapter/pdfextractor"
	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/normalize"
)

// ingest partitions the submitted files, persists a File record for each,
// hands the PDFs to the PDF Adapter, and normalizes the returned
// transaction records into domain.Transaction values with a stable
// internal id of the form `{sessionId}_{index}`.
func (o *Orchestrator) ingest(ctx context.Context, sessionID string, req SubmissionRequest) ([]domain.Transaction, error) {
	var pdfs []pdfextractor.File
	filesData := make([]domain.FileSummary, 0, len(req.Files))

	for _, f := range req.Files {
		category := categorizeNonPDF()
		if isPDF(f.Name, f.MimeType) {
			category = categorizePDF(f.Name)
			pdfs = append(pdfs, pdfextractor.File{Name: f.Name, Data: f.Data})
		}

		externalFileID := o.storeArtifact(ctx, sessionID, f)

		record := &domain.File{
			SessionID:      sessionID,
			ExternalFileID: externalFileID,
			OriginalName:   f.Name,
			Size:           f.Size,
			MimeType:       f.MimeType,
			Category:       category,
			UploadedAt:     time.Now().UTC(),
		}
		if err := o.files.Create(record); err != nil {
			o.logger.Warn().Err(err).Str("session_id", sessionID).Str("file", f.Name).Msg("failed to persist file record (best-effort)")
		}

		filesData = append(filesData, domain.FileSummary{
			Name:           f.Name,
			Size:           f.Size,
			MimeType:       f.MimeType,
			Category:       string(category),
			ExternalFileID: externalFileID,
		})
	}

	filesCount := len(req.Files)
	if err := o.sessions.UpsertReport(sessionID, &domain.ReportUpsert{
		FilesData:  filesData,
		FilesCount: &filesCount,
	}); err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to persist files-data summary (best-effort)")
	}

	if len(pdfs) == 0 {
		return nil, nil
	}

	results, err := o.pdfExtractor.Extract(ctx, pdfs)
	if err != nil {
		return nil, fmt.Errorf("pdf extractor unavailable: %w", err)
	}

	var transactions []domain.Transaction
	index := 0
	for _, result := range results {
		if result.Error != "" {
			o.logger.Warn().Str("session_id", sessionID).Str("file", result.SourceFile).Str("error", result.Error).Msg("pdf extraction failed for one file")
			continue
		}
		for _, raw := range result.Transactions {
			transactions = append(transactions, toTransaction(sessionID, index, raw))
			index++
		}
		if result.Excel != nil {
			o.storeExcelArtifact(ctx, sessionID, result.Excel)
		}
	}

	return transactions, nil
}

// storeExcelArtifact persists the converted-statement spreadsheet the PDF
// adapter returned alongside a file's transactions as its own File record,
// archiving it to object storage the same way an uploaded file is.
func (o *Orchestrator) storeExcelArtifact(ctx context.Context, sessionID string, excel *pdfextractor.ExcelArtifact) {
	externalFileID := ""
	if o.objects != nil {
		key := fmt.Sprintf("%s/%s", sessionID, excel.Name)
		if _, err := o.objects.Upload(ctx, key, bytes.NewReader(excel.Data), excel.Mime, excel.Size); err != nil {
			o.logger.Warn().Err(err).Str("session_id", sessionID).Str("file", excel.Name).Msg("failed to upload converted-statement artifact to object storage (best-effort)")
		} else {
			externalFileID = key
		}
	}

	record := &domain.File{
		SessionID:      sessionID,
		ExternalFileID: externalFileID,
		OriginalName:   excel.Name,
		Size:           excel.Size,
		MimeType:       excel.Mime,
		Category:       domain.FileCategoryConvertedStatement,
		UploadedAt:     time.Now().UTC(),
	}
	if err := o.files.Create(record); err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Str("file", excel.Name).Msg("failed to persist converted-statement file record (best-effort)")
	}
}

// storeArtifact best-effort uploads the raw file to object storage when
// configured; returns the storage key, or empty when storage is disabled
// or the upload failed (the pipeline continues regardless).
func (o *Orchestrator) storeArtifact(ctx context.Context, sessionID string, f SubmittedFile) string {
	if o.objects == nil {
		return ""
	}
	key := fmt.Sprintf("%s/%s", sessionID, f.Name)
	if _, err := o.objects.Upload(ctx, key, bytes.NewReader(f.Data), f.MimeType, int64(len(f.Data))); err != nil {
		o.logger.Warn().Err(err).Str("session_id", sessionID).Str("file", f.Name).Msg("failed to upload artifact to object storage (best-effort)")
		return ""
	}
	return key
}

// toTransaction normalizes one extractor-returned record into a
// domain.Transaction, assigning the stable internal id.
func toTransaction(sessionID string, index int, raw map[string]any) domain.Transaction {
	rawAmount, _ := normalize.ExtractAmount(raw)
	parsedAmount := normalize.ParseAmount(rawAmount)

	purpose, _ := normalize.ExtractString(raw, "purpose", "назначение", "назначение платежа", "comment", "комментарий")
	sender, _ := normalize.ExtractString(raw, "sender", "отправитель", "плательщик")
	correspondent, _ := normalize.ExtractString(raw, "correspondent", "контрагент", "получатель")
	bin, _ := normalize.ExtractString(raw, "bin", "бин", "иин")

	tx := domain.Transaction{
		InternalID:    fmt.Sprintf("%s_%d", sessionID, index),
		SessionID:     sessionID,
		RawAmount:     fmt.Sprintf("%v", rawAmount),
		ParsedAmount:  parsedAmount,
		Purpose:       normalize.NormalizeText(purpose),
		Sender:        normalize.NormalizeText(sender),
		Correspondent: normalize.NormalizeText(correspondent),
		BIN:           bin,
	}

	if t, ok := normalize.ExtractDate(raw); ok {
		tx.ValueDate = &t
	}

	return tx
}
