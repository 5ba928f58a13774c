// Package audit reconciles persisted order dumps against the pricing
// engine, reporting every snapshot whose stored values no longer reconcile.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JLucGM/backend-pos-sub004/internal/discount"
	"github.com/JLucGM/backend-pos-sub004/internal/order"
)

// fileResult holds the findings and counters for a single order dump.
type fileResult struct {
	orders   int
	findings []Finding
}

// Run loads the catalog and code corpus, audits every order dump, and writes
// the findings as JSON lines to the configured output.
func Run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	catalog, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded",
		zap.String("file", cfg.CatalogFile),
		zap.Int("discounts", len(catalog.All())),
	)

	knownCode, err := buildCodeScreen(ctx, lg, cfg)
	if err != nil {
		return errors.Wrap(err, "build code screen")
	}

	v := newVerifier(catalog, knownCode)

	results := make([]fileResult, len(cfg.OrderFiles))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range cfg.OrderFiles {
		g.Go(auditFile(gctx, f, v, &results[i]))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var findings []Finding
	orders := 0
	for _, r := range results {
		orders += r.orders
		findings = append(findings, r.findings...)
	}

	if err := writeFindings(cfg.Output, findings); err != nil {
		return errors.Wrap(err, "write findings")
	}

	lg.Info("Audit complete",
		zap.Int("orders", orders),
		zap.Int("findings", len(findings)),
		zap.String("output", cfg.Output),
	)
	return nil
}

// auditFile streams one gzipped JSON-lines order dump and verifies every
// snapshot in it.
func auditFile(ctx context.Context, path string, v *verifier, res *fileResult) func() error {
	return func() error {
		if err := streamGzLines(ctx, path, func(line []byte) error {
			var o order.Order
			if err := json.Unmarshal(line, &o); err != nil {
				return errors.Wrap(err, "decode order")
			}
			res.orders++
			res.findings = append(res.findings, v.verify(&o)...)
			return nil
		}); err != nil {
			return errors.Wrapf(err, "audit %s", path)
		}
		return nil
	}
}

// loadCatalog reads the discount catalog from a JSON file.
func loadCatalog(path string) (*discount.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var discounts []discount.Discount
	if err := json.Unmarshal(data, &discounts); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}

	return discount.NewCatalog(discounts), nil
}

// buildCodeScreen builds one bloom filter per corpus file concurrently and
// returns a membership test over their union. It returns nil when no corpus
// directory is configured.
func buildCodeScreen(ctx context.Context, lg *zap.Logger, cfg *Config) (func(string) bool, error) {
	if cfg.CodesDir == "" {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(cfg.CodesDir, "*.gz"))
	if err != nil {
		return nil, errors.Wrap(err, "glob corpus files")
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no *.gz corpus files in %s", cfg.CodesDir)
	}

	filters := make([]*bloom.BloomFilter, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(gctx, f, cfg.Bloom, &filters[i]))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lg.Info("Code corpus loaded", zap.Int("files", len(files)))

	return func(code string) bool {
		for _, f := range filters {
			if f.TestString(code) {
				return true
			}
		}
		return false
	}, nil
}

func buildFilterForFile(ctx context.Context, path string, cfg BloomConfig, out **bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(cfg.Capacity, cfg.FPR)

		if err := streamGzLines(ctx, path, func(line []byte) error {
			filter.Add(line)
			return nil
		}); err != nil {
			return errors.Wrapf(err, "build filter for %s", path)
		}

		*out = filter
		return nil
	}
}

// streamGzLines opens a gzip-compressed file and calls fn for each line.
func streamGzLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 1<<20), 16<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}
