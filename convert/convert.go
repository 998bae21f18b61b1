// Package convert turns MEDM .adl screens into PyDM .ui files. It ties the
// parser and the translator together, writes the output files and reports
// diagnostics and metrics.
package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hesusruiz/adl2pydm/medm"
	"github.com/hesusruiz/adl2pydm/pydm"
	"github.com/hesusruiz/adl2pydm/sliceedit"
)

// Result describes one converted file.
type Result struct {
	Input  string
	Output string
	// Data is the content written to Output, or that would have been
	// written in a dry run.
	Data        []byte
	Widgets     int
	Diagnostics int
	Duration    time.Duration
}

// Converter converts files with a fixed configuration. It is safe for
// concurrent use.
type Converter struct {
	cfg     Config
	log     *zap.SugaredLogger
	diag    Diagnostics
	metrics *Metrics
}

// New returns a Converter. A nil logger discards logging, a nil diags logs
// through the logger and a nil metrics disables counting.
func New(cfg Config, logger *zap.SugaredLogger, diags Diagnostics, metrics *Metrics) *Converter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if diags == nil {
		diags = LogDiagnostics{Log: logger}
	}
	return &Converter{cfg: cfg, log: logger, diag: diags, metrics: metrics}
}

// Config returns the configuration of the converter.
func (c *Converter) Config() Config {
	return c.cfg
}

// OutputName returns the name of the .ui file for input, inside outputDir or
// beside the input when outputDir is empty.
func (c *Converter) OutputName(input, outputDir string) string {
	name := sliceedit.ReplaceExtension(filepath.Base(input), ".adl", c.cfg.Extension)
	if name == filepath.Base(input) {
		name += c.cfg.Extension
	}
	if outputDir == "" {
		outputDir = filepath.Dir(input)
	}
	return filepath.Join(outputDir, name)
}

// Parse reads and parses input. The recovered problems stay in the Warnings
// of the tree until ReportWarnings.
func (c *Converter) Parse(input string) (*medm.Tree, error) {
	tree, err := medm.ParseFromFile(input, medm.Options{
		Encoding: c.cfg.Encoding,
		MaxDepth: c.cfg.MaxDepth,
		Logger:   c.log,
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// ReportWarnings reports the recovered parse problems of tree. With the
// document of the tree each one names the widget it belongs to.
func (c *Converter) ReportWarnings(tree *medm.Tree, doc *pydm.Document) {
	names := widgetNames(tree, doc)
	for _, w := range tree.Warnings {
		c.report(fromSyntaxError(w, widgetOf(tree, names, w.Block)))
	}
}

// Translate builds the document of a parsed file, reporting the warnings of
// the parse and the diagnostics of the translation.
func (c *Converter) Translate(tree *medm.Tree) (*pydm.Document, error) {
	doc, err := pydm.Translate(tree, pydm.Options{
		Protocol:   c.cfg.Protocol,
		ScreenName: c.cfg.ScreenName,
		Title:      strings.TrimSuffix(filepath.Base(tree.FileName), filepath.Ext(tree.FileName)),
		Logger:     c.log,
	})
	if err != nil {
		c.ReportWarnings(tree, nil)
		return nil, err
	}
	c.ReportWarnings(tree, doc)
	for _, d := range doc.Diagnostics {
		c.report(d)
	}
	return doc, nil
}

// ConvertFile converts input and writes the result in outputDir. Nothing is
// written when the conversion fails.
func (c *Converter) ConvertFile(ctx context.Context, input, outputDir string) (*Result, error) {
	start := time.Now()
	res, err := c.convertFile(ctx, input, outputDir)
	if c.metrics != nil {
		c.metrics.Duration.Observe(time.Since(start).Seconds())
		if err != nil {
			c.metrics.Files.WithLabelValues("failed").Inc()
		} else {
			c.metrics.Files.WithLabelValues("converted").Inc()
			c.metrics.Widgets.Add(float64(res.Widgets))
		}
	}
	if err != nil {
		c.log.Errorw("conversion failed", "file", input, "error", err)
		return nil, err
	}
	res.Duration = time.Since(start)
	c.log.Infow("converted", "file", input, "output", res.Output, "widgets", res.Widgets, "diagnostics", res.Diagnostics)
	return res, nil
}

func (c *Converter) convertFile(ctx context.Context, input, outputDir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := c.Parse(input)
	if err != nil {
		return nil, err
	}
	doc, err := c.Translate(tree)
	if err != nil {
		return nil, errors.Wrap(err, input)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, errors.Wrapf(err, "writing %s", input)
	}

	res := &Result{
		Input:       input,
		Output:      c.OutputName(input, outputDir),
		Data:        buf.Bytes(),
		Widgets:     doc.Screen.Count(),
		Diagnostics: len(tree.Warnings) + len(doc.Diagnostics),
	}
	if c.cfg.DryRun {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(res.Output, res.Data); err != nil {
		return nil, err
	}
	return res, nil
}

// ConvertAll converts inputs with at most jobs conversions running at the same
// time. A failed file does not stop the others. The results keep the order of
// inputs, with nil for the files that failed.
func (c *Converter) ConvertAll(ctx context.Context, inputs []string, outputDir string, jobs int) ([]*Result, error) {
	results := make([]*Result, len(inputs))
	errs := make([]error, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			results[i], errs[i] = c.ConvertFile(ctx, input, outputDir)
			// Only a cancelled context stops the batch
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	failed := 0
	var first error
	for _, err := range errs {
		if err != nil {
			failed++
			if first == nil {
				first = err
			}
		}
	}
	if failed > 0 {
		return results, errors.Wrapf(first, "%d of %d files failed, first error", failed, len(inputs))
	}
	return results, nil
}

func (c *Converter) report(d pydm.Diagnostic) {
	if c.metrics != nil {
		c.metrics.Diagnostics.WithLabelValues(d.Severity.String()).Inc()
	}
	c.diag.Report(d)
}

// writeFileAtomic writes data to a temporary file beside name and renames it
// to name. The temporary file is removed on any failure.
func writeFileAtomic(name string, data []byte) (err error) {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return errors.Wrap(err, "writing output file")
	}
	if err = f.Chmod(0o644); err != nil {
		return errors.Wrap(err, "writing output file")
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "writing output file")
	}
	if err = os.Rename(f.Name(), name); err != nil {
		return errors.Wrap(err, "renaming output file")
	}
	return nil
}

// Discover expands the directories in paths to the .adl files they contain,
// recursively. Files given by name are kept even without the extension. The
// result is sorted and without duplicates.
func Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrap(err, "looking for input files")
		}
		if !info.IsDir() {
			add(filepath.Clean(p))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".adl") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "looking for input files in %s", p)
		}
	}

	sort.Strings(files)
	return files, nil
}
