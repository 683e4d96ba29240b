package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// readValidated reads a JSON or YAML document, validates it against schema
// and decodes it into out.
func readValidated(path string, format Format, schema string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	data, err := toJSON(raw, format)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := validate(schema, doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// readPlain reads a JSON or YAML document without schema validation.
func readPlain(path string, out any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if format == HCL {
		return fmt.Errorf("%s: HCL is only accepted for stage template and target documents", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := toJSON(raw, format)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// toJSON normalizes a YAML document into JSON so every format shares one
// decoding path. JSON input is returned unchanged.
func toJSON(raw []byte, format Format) ([]byte, error) {
	if format != YAML {
		return raw, nil
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("empty YAML document")
	}
	return json.Marshal(doc)
}
