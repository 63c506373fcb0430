// Package config loads the optional HCL configuration file controlling
// output placement and per-chart rendering style.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ChartNames lists the chart variants a config file may style.
var ChartNames = []string{"topics", "topics_by_event", "event", "topic", "full"}

// file mirrors the HCL structure on disk.
type file struct {
	Output *outputBlock `hcl:"output,block"`
	Charts []chartBlock `hcl:"chart,block"`
}

type outputBlock struct {
	Dir    *string `hcl:"dir,optional"`
	Prefix *string `hcl:"prefix,optional"`
}

type chartBlock struct {
	Name          string         `hcl:"name,label"`
	GraphAttrs    hcl.Expression `hcl:"graph_attrs,optional"`
	TaughtColor   *string        `hcl:"taught_color,optional"`
	RequiredColor *string        `hcl:"required_color,optional"`
}

// Style is the resolved rendering style for one chart variant.
type Style struct {
	// GraphAttrs are attributes set on the chart's root graph.
	GraphAttrs map[string]string
	// TaughtColor is the node color for taught topics.
	TaughtColor string
	// RequiredColor is the node color for required topics; empty means the
	// renderer default.
	RequiredColor string
}

// Config is the resolved configuration: defaults overlaid with whatever the
// file provides.
type Config struct {
	// OutputDir is where chart files are written.
	OutputDir string
	// OutputPrefix is prepended to every chart file name.
	OutputPrefix string

	styles map[string]Style
}

// Default returns the built-in configuration: output under ./output, taught
// topics in blue, and the orthogonal-spline frame the event-grouped charts
// rely on.
func Default() *Config {
	styles := make(map[string]Style, len(ChartNames))
	for _, name := range ChartNames {
		style := Style{
			GraphAttrs:  map[string]string{},
			TaughtColor: "blue",
		}
		switch name {
		case "full", "event", "topic":
			style.GraphAttrs["splines"] = "ortho"
			style.GraphAttrs["ranksep"] = "1"
		}
		styles[name] = style
	}
	return &Config{
		OutputDir: "output",
		styles:    styles,
	}
}

// Load reads an HCL config file and overlays it onto the defaults.
func Load(path string) (*Config, error) {
	var f file
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg := Default()
	if f.Output != nil {
		if f.Output.Dir != nil {
			cfg.OutputDir = *f.Output.Dir
		}
		if f.Output.Prefix != nil {
			cfg.OutputPrefix = *f.Output.Prefix
		}
	}
	for _, block := range f.Charts {
		style, ok := cfg.styles[block.Name]
		if !ok {
			return nil, fmt.Errorf("config %s: unknown chart %q", path, block.Name)
		}
		attrs, err := decodeAttrs(block.GraphAttrs)
		if err != nil {
			return nil, fmt.Errorf("config %s: chart %q: %w", path, block.Name, err)
		}
		for k, v := range attrs {
			style.GraphAttrs[k] = v
		}
		if block.TaughtColor != nil {
			style.TaughtColor = *block.TaughtColor
		}
		if block.RequiredColor != nil {
			style.RequiredColor = *block.RequiredColor
		}
		cfg.styles[block.Name] = style
	}
	return cfg, nil
}

// Style returns the resolved style for a chart variant.
func (c *Config) Style(chart string) Style {
	return c.styles[chart]
}

// decodeAttrs evaluates a graph_attrs expression into a string map. Values
// are converted to strings so numbers work naturally (ranksep = 1).
func decodeAttrs(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("graph_attrs must be a map of strings")
	}
	attrs := make(map[string]string)
	for key, v := range val.AsValueMap() {
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("graph_attrs[%q]: %w", key, err)
		}
		if str.IsNull() {
			continue
		}
		attrs[key] = str.AsString()
	}
	return attrs, nil
}
