package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/rblabel/pkg/config"
	"github.com/cyclopcam/rblabel/pkg/datapoint"
	"github.com/cyclopcam/rblabel/pkg/taxonomy"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("rblabel", "Densify video labels and rasterize segmentation masks")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Config file (JSON)", Required: false, Default: ""})

	interpCmd := parser.NewCommand("interpolate", "Interpolate video bbox and classification tracks onto every frame")
	interpInput := interpCmd.String("i", "input", &argparse.Options{Help: "Datapoints file (JSON)", Required: true})
	interpOutput := interpCmd.String("o", "output", &argparse.Options{Help: "Output file", Required: true})
	interpFormat := interpCmd.Selector("", "format", []string{config.FormatJSON, config.FormatCBOR}, &argparse.Options{Help: "Output format. Overrides config.", Required: false})

	rasterCmd := parser.NewCommand("rasterize", "Rasterize polygon labels into class-id masks")
	rasterInput := rasterCmd.String("i", "input", &argparse.Options{Help: "Datapoints file (JSON)", Required: true})
	rasterTaxonomy := rasterCmd.String("t", "taxonomy", &argparse.Options{Help: "Taxonomy JSON, or a text file with one class name per line. Overrides config.", Required: false})
	rasterDir := rasterCmd.String("d", "outdir", &argparse.Options{Help: "Output directory", Required: true})
	rasterOverlay := rasterCmd.String("", "overlay", &argparse.Options{Help: "Directory of source images, named after the datapoints. Writes a colour preview of every mask.", Required: false})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	cfg, err := config.LoadConfig(*configFile)
	check(err)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if interpCmd.Happened() {
		if *interpFormat != "" {
			cfg.OutputFormat = *interpFormat
		}
		check(interpolate(ctx, logger, cfg, *interpInput, *interpOutput))
	} else if rasterCmd.Happened() {
		if *rasterTaxonomy != "" {
			cfg.TaxonomyFile = *rasterTaxonomy
		}
		if *rasterOverlay != "" {
			cfg.Overlays = true
		}
		check(rasterize(ctx, logger, cfg, *rasterInput, *rasterDir, *rasterOverlay))
	}
}

func interpolate(ctx context.Context, log logs.Log, cfg *config.Config, input, output string) error {
	dps, err := datapoint.LoadDatapoints(input)
	if err != nil {
		return err
	}
	processor := datapoint.NewProcessor(log, nil, cfg.Workers)
	results, err := processor.Process(ctx, dps)
	if err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := datapoint.Encode(f, results, cfg.OutputFormat); err != nil {
		return err
	}
	log.Infof("Wrote %v datapoints to %v", len(results), output)
	return nil
}

func rasterize(ctx context.Context, log logs.Log, cfg *config.Config, input, outDir, imagesDir string) error {
	if cfg.TaxonomyFile == "" {
		return fmt.Errorf("No taxonomy specified")
	}
	classes, err := taxonomy.LoadClassMap(cfg.TaxonomyFile)
	if err != nil {
		return err
	}
	segClasses, err := classes.ForSegmentation()
	if err != nil {
		return err
	}
	dps, err := datapoint.LoadDatapoints(input)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	processor := datapoint.NewProcessor(log, segClasses, cfg.Workers)
	results, err := processor.Process(ctx, dps)
	if err != nil {
		return err
	}

	nMasks := 0
	for _, r := range results {
		if r.Mask == nil {
			continue
		}
		base := filepath.Join(outDir, safeFilename(r.Name))
		if err := r.Mask.WritePNG(base + ".png"); err != nil {
			return fmt.Errorf("Error writing mask of %v: %w", r.Name, err)
		}
		if cfg.Overlays {
			if err := r.Mask.WriteOverlayPNG(base+"-overlay.png", findImage(imagesDir, r.Name), cfg.OverlayAlpha); err != nil {
				log.Warnf("Failed to write overlay of %v: %v", r.Name, err)
			}
		}
		nMasks++
	}

	// Summary of classes and failures per datapoint
	summary, err := os.Create(filepath.Join(outDir, "results."+cfg.OutputFormat))
	if err != nil {
		return err
	}
	defer summary.Close()
	if err := datapoint.Encode(summary, results, cfg.OutputFormat); err != nil {
		return err
	}

	log.Infof("Wrote %v masks to %v (%v datapoints)", nMasks, outDir, len(results))
	return nil
}

// safeFilename turns a datapoint name, which may be a path or URL, into a single file name
func safeFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '?', '*', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// findImage returns the source image for a datapoint, or "" if there is none
func findImage(dir, name string) string {
	if dir == "" {
		return ""
	}
	exact := filepath.Join(dir, filepath.Base(name))
	if _, err := os.Stat(exact); err == nil {
		return exact
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		candidate := filepath.Join(dir, base+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
