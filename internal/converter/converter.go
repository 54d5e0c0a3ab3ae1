// Package converter runs the apparatus-to-TEI pipeline: resolve the
// content index, fetch the VMR apparatus, build the collation, and
// serialize it as TEI. The CLI and the HTTP server share this package.
package converter

import (
	"context"

	"github.com/google/uuid"

	"vmr2tei/core/collation"
	"vmr2tei/core/index"
	"vmr2tei/core/tei"
	"vmr2tei/core/vmr"
	"vmr2tei/internal/config"
	"vmr2tei/internal/logging"
)

// Stage names reported through the progress callback, in pipeline order.
const (
	StageFetch     = "fetch"
	StageParse     = "parse"
	StageCollate   = "collate"
	StageSerialize = "serialize"
	StageDone      = "done"
)

// Progress reports pipeline advancement for one conversion.
type Progress struct {
	Index   string `json:"index"`
	Stage   string `json:"stage"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives progress updates. It is called synchronously
// from the pipeline and must not block.
type ProgressFunc func(Progress)

// Fetcher retrieves apparatus XML for a content index.
type Fetcher interface {
	FetchApparatus(ctx context.Context, index string) ([]byte, error)
}

// Converter is the configured pipeline.
type Converter struct {
	cfg     *config.Config
	fetcher Fetcher
}

// New creates a converter from a configuration and an apparatus source.
func New(cfg *config.Config, fetcher Fetcher) *Converter {
	return &Converter{cfg: cfg, fetcher: fetcher}
}

// Result is a finished conversion.
type Result struct {
	// Index is the canonical form of the requested content index.
	Index string
	// Book is the NT book the index selects.
	Book string
	// Witnesses is the size of the finalized witness registry.
	Witnesses int
	// Units is the number of variation units.
	Units int
	// TEI is the serialized document.
	TEI []byte
}

// Convert runs the full pipeline for one content index.
func (c *Converter) Convert(ctx context.Context, rawIndex string, progress ProgressFunc) (*Result, error) {
	report := func(stage string, percent int, idx string) {
		if progress != nil {
			progress(Progress{Index: idx, Stage: stage, Percent: percent})
		}
	}
	runID := uuid.NewString()

	idx, err := index.Parse(rawIndex)
	if err != nil {
		return nil, err
	}
	report(StageFetch, 10, idx.Raw)
	logging.ConversionEvent(idx.Raw, StageFetch, "run_id", runID, "book", idx.Book)
	body, err := c.fetcher.FetchApparatus(ctx, idx.Raw)
	if err != nil {
		logging.ConversionError(idx.Raw, StageFetch, err, "run_id", runID)
		return nil, err
	}

	report(StageParse, 40, idx.Raw)
	doc, err := vmr.Parse(body)
	if err != nil {
		logging.ConversionError(idx.Raw, StageParse, err, "run_id", runID)
		return nil, err
	}

	report(StageCollate, 60, idx.Raw)
	opts, err := c.cfg.CollationOptions(idx.Book)
	if err != nil {
		return nil, err
	}
	coll, err := collation.Build(doc, idx.Book, opts)
	if err != nil {
		logging.ConversionError(idx.Raw, StageCollate, err, "run_id", runID)
		return nil, err
	}

	report(StageSerialize, 90, idx.Raw)
	out := tei.Serialize(coll)
	report(StageDone, 100, idx.Raw)
	logging.ConversionEvent(idx.Raw, StageDone, "run_id", runID,
		"witnesses", coll.Registry.Len(), "units", len(coll.Units))

	return &Result{
		Index:     idx.Raw,
		Book:      idx.Book,
		Witnesses: coll.Registry.Len(),
		Units:     len(coll.Units),
		TEI:       out,
	}, nil
}
