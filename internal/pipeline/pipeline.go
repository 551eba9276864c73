package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/micropng"
	"github.com/AnyUserName/micropng/internal/manifest"
	"github.com/AnyUserName/micropng/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Verbose   bool
}

// Pipeline converts every image under a directory into a minimal PNG.
type Pipeline struct {
	cfg Config
	enc *micropng.Encoder
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg: cfg,
		enc: &micropng.Encoder{CompressionLevel: cfg.Profile.Level},
	}
}

// Run executes the full build pipeline and returns the manifest.
// Individual failures are reported; Run fails only when every source failed.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[micropng] compressor: %s\n", p.enc.CompressorName())
	}

	// Step 1: Scan for inputs.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[micropng] found %d inputs\n", len(sources))
	}

	// Step 2: Encode in parallel. Every job writes its own destination.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[micropng] processing: %s\n", s.RelPath)
			}

			results[idx] = processImage(s, p.cfg, p.enc)

			if p.cfg.Verbose && results[idx].err == nil {
				f := results[idx].file
				fmt.Fprintf(os.Stderr, "[micropng] done: %s (%dx%d, %d ch, %d bytes)\n",
					f.Path, f.Width, f.Height, f.Channels, f.Size)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name, p.enc.CompressorName())

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Files[r.key] = r.file
	}

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[micropng] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d inputs failed to convert", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[micropng] warning: %d of %d inputs had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}
	m.Stats.Failed = len(errs)
	m.ComputeStats()
	return m, nil
}
