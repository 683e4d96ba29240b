package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/stagegrid/internal/model"
)

// LoadMerged reads a resolved stage map. Missing fields are normalized to
// empty values.
func LoadMerged(path string) (map[string]model.ResolvedStage, error) {
	var stages map[string]model.ResolvedStage
	if err := readPlain(path, &stages); err != nil {
		return nil, err
	}
	if stages == nil {
		stages = map[string]model.ResolvedStage{}
	}
	for name, stage := range stages {
		stage.Normalize()
		stages[name] = stage
	}
	return stages, nil
}

// WriteMerged writes a resolved stage map as indented JSON.
func WriteMerged(path string, stages map[string]model.ResolvedStage) error {
	return writeJSON(path, stages)
}

// LoadAnalyzed reads an analyzed document.
func LoadAnalyzed(path string) (map[string]model.Analysis, error) {
	var analyzed map[string]model.Analysis
	if err := readPlain(path, &analyzed); err != nil {
		return nil, err
	}
	if analyzed == nil {
		analyzed = map[string]model.Analysis{}
	}
	return analyzed, nil
}

// WriteAnalyzed writes an analyzed document as indented JSON.
func WriteAnalyzed(path string, analyzed map[string]model.Analysis) error {
	return writeJSON(path, analyzed)
}

// writeJSON encodes v and replaces path atomically through a temporary file
// in the same directory.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
