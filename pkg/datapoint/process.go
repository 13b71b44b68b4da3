package datapoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/rblabel/pkg/idgen"
	"github.com/cyclopcam/rblabel/pkg/interp"
	"github.com/cyclopcam/rblabel/pkg/labels"
	"github.com/cyclopcam/rblabel/pkg/mask"
	"github.com/cyclopcam/rblabel/pkg/perfstats"
	"golang.org/x/sync/errgroup"
)

var ErrNoTaxonomy = errors.New("Segmentation needs a taxonomy")

// Processor turns datapoints into results.
// Each datapoint is independent, so they are processed in parallel.
type Processor struct {
	Log     logs.Log
	Classes mask.ClassLookup // Segmentation classes (background = 0). May be nil if there are no segmentation datapoints.
	IDs     idgen.Generator  // Source of identities for labels and tracks that don't have one
	Workers int              // Maximum number of datapoints processed at once
	Times   *perfstats.TaskTimes
}

func NewProcessor(log logs.Log, classes mask.ClassLookup, workers int) *Processor {
	return &Processor{
		Log:     log,
		Classes: classes,
		IDs:     idgen.UUID{},
		Workers: workers,
		Times:   perfstats.NewTaskTimes(),
	}
}

// Process runs every datapoint, and returns results in the same order.
// A datapoint that fails does not stop the batch; its failure is recorded in its Result.
// The only error returned is cancellation of ctx.
func (p *Processor) Process(ctx context.Context, dps []*Datapoint) ([]*Result, error) {
	results := make([]*Result, len(dps))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.Workers))
	for i, dp := range dps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.ProcessOne(dp)
			p.Log.Infof("Processed %v/%v '%v'", i+1, len(dps), dp.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	p.Log.Infof("Processed %v datapoints. %v", len(dps), p.Times.Summary())
	return results, nil
}

// ProcessOne interpolates or rasterizes a single datapoint
func (p *Processor) ProcessOne(dp *Datapoint) *Result {
	start := time.Now()
	r := &Result{
		Name: dp.Name,
		Task: dp.TaskType(),
	}
	defer func() {
		p.Times.Add(string(r.Task), time.Since(start))
	}()
	var err error
	switch r.Task {
	case TaskBBox:
		r.Frames, err = interp.InterpolateRecords(dp.Labels, dp.NumFrames, p.IDs)
	case TaskClassify:
		r.ClassifyFrames, err = p.classify(dp)
	case TaskSegmentation:
		r.Mask, err = p.segment(dp)
		if r.Mask != nil {
			r.MaskClasses = r.Mask.Classes()
		}
	}
	for _, e := range flatten(err) {
		p.Log.Warnf("Datapoint '%v': %v", dp.Name, e)
		r.Errors = append(r.Errors, e.Error())
	}
	if r.Failed() {
		p.Log.Errorf("Datapoint '%v' (%v) failed", dp.Name, r.Task)
	}
	return r
}

func (p *Processor) classify(dp *Datapoint) ([][]labels.VideoClassify, error) {
	classes, err := labels.ParseVideoClassifications(dp.Labels, p.IDs)
	if err != nil {
		return nil, err
	}
	return interp.InterpolateClassify(classes, dp.NumFrames)
}

func (p *Processor) segment(dp *Datapoint) (*mask.Mask, error) {
	if p.Classes == nil {
		return nil, ErrNoTaxonomy
	}
	regions, err := labels.ParsePolygonRegions(dp.Labels, p.IDs)
	if err != nil {
		return nil, err
	}
	m, err := mask.Rasterize(regions, p.Classes, dp.ImageSize())
	if err != nil {
		return nil, fmt.Errorf("Rasterizing: %w", err)
	}
	return m, nil
}

// flatten expands joined errors into their parts
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		all := []error{}
		for _, e := range joined.Unwrap() {
			all = append(all, flatten(e)...)
		}
		return all
	}
	return []error{err}
}
