package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/hesusruiz/adl2pydm/convert"
	"github.com/hesusruiz/adl2pydm/sliceedit"
)

// drawDiagram renders the widget hierarchy of the input file as an SVG file.
func drawDiagram(c *cli.Context) error {
	sugar := newLogger(c.Bool("debug"))
	defer sugar.Sync()

	input, err := firstInput(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	conv := convert.New(cfg, sugar, nil, nil)
	tree, err := conv.Parse(input)
	if err != nil {
		return err
	}
	doc, err := conv.Translate(tree)
	if err != nil {
		return err
	}

	svg, err := renderD2(c.Context, doc.D2())
	if err != nil {
		return err
	}

	outputFileName := c.String("output")
	if outputFileName == "" {
		outputFileName = sliceedit.ReplaceExtension(input, filepath.Ext(input), ".svg")
	}
	fmt.Printf("drawing %v into %v\n", input, outputFileName)
	return os.WriteFile(outputFileName, svg, 0664)
}

// renderD2 compiles a D2 description and lays it out as SVG.
func renderD2(ctx context.Context, src string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, errors.Wrap(err, "creating text ruler")
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, src, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, errors.Wrap(err, "compiling diagram")
	}

	svg, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	return svg, errors.Wrap(err, "rendering diagram")
}
