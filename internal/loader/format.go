package loader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies the syntax of a document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	HCL  Format = "hcl"
)

// FormatOf derives the document format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".hcl":
		return HCL, nil
	default:
		return "", fmt.Errorf("unsupported document extension %q for %s (want .json, .yaml, .yml or .hcl)", filepath.Ext(path), path)
	}
}
