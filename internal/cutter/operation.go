package cutter

import (
	"image"
	"io"

	"tilecut/internal/config"
	"tilecut/internal/dmi"
)

// NamedImage is a standalone PNG artifact produced alongside the icon,
// carrying hints for where the orchestrator should write it.
type NamedImage struct {
	PathHint string
	NameHint string
	Image    *image.NRGBA
}

// Operation is one cutter mode. Perform consumes a decoded source sheet
// and produces the finished multi-state icon, plus debug artifacts when
// requested.
type Operation interface {
	Perform(sheet image.Image, debug bool) (*dmi.Icon, []NamedImage, error)
}

// Config is one input file's effective configuration after template
// resolution: an optional output file prefix and the mode payload.
type Config struct {
	FilePrefix string
	Mode       Operation
}

// topLevel captures the non-mode keys of a resolved document.
type topLevel struct {
	FilePrefix string `yaml:"file_prefix"`
	Mode       string `yaml:"mode"`
}

// LoadConfig reads a raw YAML config, flattens its template chain through
// the resolver, and dispatches on the mode tag into the matching operation
// variant.
func LoadConfig(r io.Reader, resolver config.Resolver) (*Config, error) {
	doc, err := config.ParseDocument(r)
	if err != nil {
		return nil, err
	}
	resolved, err := config.ResolveTemplates(doc, resolver)
	if err != nil {
		return nil, err
	}

	var top topLevel
	if err := config.Decode(resolved, &top); err != nil {
		return nil, err
	}

	var mode Operation
	switch top.Mode {
	case "bitmask_slice":
		mode = &BitmaskSlice{}
	case "bitmask_windows":
		mode = &BitmaskWindows{}
	case "bitmask_dir_visibility":
		mode = &BitmaskDirVisibility{}
	case "":
		return nil, &ConfigError{Field: "mode", Detail: "missing required field"}
	default:
		return nil, &ConfigError{Field: "mode", Detail: "unknown mode " + top.Mode}
	}
	if err := config.Decode(resolved, mode); err != nil {
		return nil, err
	}

	return &Config{FilePrefix: top.FilePrefix, Mode: mode}, nil
}
