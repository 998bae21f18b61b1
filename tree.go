package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/hesusruiz/adl2pydm/convert"
)

// printTree writes the block tree of the input file to stdout as YAML.
func printTree(c *cli.Context) error {
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
	conv.ReportWarnings(tree, nil)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(tree.Outline(tree.Root())); err != nil {
		return err
	}
	return enc.Close()
}
