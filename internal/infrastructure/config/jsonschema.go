package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{FieldNameTag: "toml"}
	schema := r.Reflect(&Config{})

	schema.ID = "https://github.com/bnema/arkium/config.schema.json"
	schema.Title = "Arkium Configuration"
	schema.Description = "Configuration schema for arkium, a browser shell driving Chromium"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// WriteSchemaFile writes Schema to path.
func WriteSchemaFile(path string) error {
	data, err := Schema()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
