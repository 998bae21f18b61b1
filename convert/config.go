package convert

import (
	"strconv"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/pkg/errors"

	"github.com/hesusruiz/adl2pydm/medm"
)

// Config holds the settings of a conversion.
type Config struct {
	// Protocol is the scheme prefixed to channel names.
	Protocol string
	// Encoding is the character set of the input files.
	Encoding string
	// MaxDepth limits the nesting of blocks in the input.
	MaxDepth int
	// ScreenName is the object name of the top level widget.
	ScreenName string
	// Extension is given to the output files.
	Extension string
	// HighlightStyle is the chroma style used to show the output on a terminal.
	HighlightStyle string
	// DryRun converts without writing any file.
	DryRun bool
}

// DefaultConfig returns the settings used when there is no configuration file.
func DefaultConfig() Config {
	return Config{
		Protocol:       "ca",
		Encoding:       "utf-8",
		MaxDepth:       medm.DefaultMaxDepth,
		ScreenName:     "screen",
		Extension:      ".ui",
		HighlightStyle: "monokai",
	}
}

// LoadConfig reads the settings from a YAML file. Keys not present in the
// file keep their default value. An empty fileName returns the defaults.
func LoadConfig(fileName string) (Config, error) {
	if fileName == "" {
		return ConfigFromYAML(nil)
	}
	cfg, err := yaml.ParseYamlFile(fileName)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading configuration %s", fileName)
	}
	return ConfigFromYAML(cfg)
}

// ConfigFromYAML builds the settings from parsed YAML data, which may be nil.
func ConfigFromYAML(data *yaml.YAML) (Config, error) {
	cfg := DefaultConfig()
	if data == nil {
		return cfg, nil
	}

	cfg.Protocol = data.String("protocol", cfg.Protocol)
	cfg.Encoding = data.String("encoding", cfg.Encoding)
	cfg.ScreenName = data.String("screenName", cfg.ScreenName)
	cfg.Extension = data.String("extension", cfg.Extension)
	cfg.HighlightStyle = data.String("highlightStyle", cfg.HighlightStyle)

	depth := data.String("maxDepth", strconv.Itoa(cfg.MaxDepth))
	n, err := strconv.Atoi(depth)
	if err != nil || n <= 0 {
		return Config{}, errors.Errorf("maxDepth: %q is not a positive integer", depth)
	}
	cfg.MaxDepth = n

	return cfg, nil
}
