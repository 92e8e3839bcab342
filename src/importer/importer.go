// Package importer orchestrates a batch import: raw file bytes in,
// persisted canonical transactions and per-file results out.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/fx"
	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers"
	"github.com/username/portfolion/backend/src/processors"
)

// ErrEmptyBatch is returned when ImportBatch is called with no files.
var ErrEmptyBatch = errors.New("import batch contains no files")

// File is one uploaded statement file.
type File struct {
	Name string
	Data []byte
}

// ProgressFunc receives coarse progress updates during a batch. percent is
// 0..100 across the whole batch. It may be nil.
type ProgressFunc func(percent int, message string)

// Gateway persists the normalized output of one file.
type Gateway interface {
	Save(transactions []models.CanonicalTransaction, provider string) (models.SaveOutcome, error)
}

// Importer runs the extract, detect, parse, normalize, save pipeline. One
// fresh FX resolver is built per batch, so external rates are fetched at
// most once per (date, currency) within the batch and never leak between
// batches.
type Importer struct {
	registry   *parsers.Registry
	gateway    Gateway
	historical *fx.HistoricalStore
	primary    fx.RateClient
	secondary  fx.RateClient
	base       string
}

func New(registry *parsers.Registry, gateway Gateway, historical *fx.HistoricalStore, primary, secondary fx.RateClient, baseCurrency string) *Importer {
	return &Importer{
		registry:   registry,
		gateway:    gateway,
		historical: historical,
		primary:    primary,
		secondary:  secondary,
		base:       baseCurrency,
	}
}

// ImportBatch processes files sequentially. A failure in one file is
// recorded in its result and does not stop the rest of the batch. Context
// cancellation stops launching further files; files already saved stay
// saved.
func (im *Importer) ImportBatch(ctx context.Context, files []File, progress ProgressFunc) ([]models.ImportFileResult, error) {
	if len(files) == 0 {
		return nil, ErrEmptyBatch
	}

	resolver := fx.NewResolver(im.base, im.historical, im.primary, im.secondary)
	normalizer := processors.NewNormalizer(resolver)

	results := make([]models.ImportFileResult, 0, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			for _, rest := range files[i:] {
				results = append(results, models.ImportFileResult{
					FileName: rest.Name,
					Status:   models.ImportSkipped,
					Error:    "batch canceled",
				})
			}
			return results, nil
		}

		report(progress, i*100/len(files), fmt.Sprintf("processing %s", f.Name))
		results = append(results, im.importOne(ctx, f, normalizer))
	}
	report(progress, 100, "done")
	return results, nil
}

func (im *Importer) importOne(ctx context.Context, f File, normalizer *processors.Normalizer) models.ImportFileResult {
	result := models.ImportFileResult{FileName: f.Name}

	content, err := extract.FromFile(f.Name, f.Data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			result.Status = models.ImportSkipped
			result.Error = "unsupported format"
			return result
		}
		result.Status = models.ImportFailed
		result.Error = err.Error()
		return result
	}

	parser, ok := im.registry.Detect(content)
	if !ok {
		result.Status = models.ImportSkipped
		result.Error = "unrecognized format"
		return result
	}

	raw, err := parser.Parse(content)
	if err != nil {
		logger.L.Error("Parsing failed", "file", f.Name, "parser", parser.Name(), "error", err)
		result.Status = models.ImportFailed
		result.Error = err.Error()
		return result
	}
	if len(raw) == 0 {
		result.Status = models.ImportSkipped
		result.Error = "no transactions found"
		return result
	}

	canonical := normalizer.Normalize(ctx, raw, parser.Name())
	outcome, err := im.gateway.Save(canonical, parser.Name())
	if err != nil {
		logger.L.Error("Saving failed", "file", f.Name, "parser", parser.Name(), "error", err)
		result.Status = models.ImportFailed
		result.Error = err.Error()
		return result
	}

	logger.L.Info("Imported statement file",
		"file", f.Name, "parser", parser.Name(),
		"parsed", len(raw), "inserted", outcome.Inserted, "duplicates", outcome.Skipped)

	result.Status = models.ImportSucceeded
	result.TransactionCount = len(canonical)
	return result
}

func report(progress ProgressFunc, percent int, message string) {
	if progress != nil {
		progress(percent, message)
	}
}
