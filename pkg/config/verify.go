package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema validates the config against the embedded JSON schema
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	if err := verifySchema(embeddedSchema, cfg); err != nil {
		return err
	}
	if err := validateRequiredFields(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// schemaDef is the part of a schema definition used for key checks
type schemaDef struct {
	Properties map[string]schemaProp `json:"properties"`
}

// schemaProp is a property referencing another definition directly, per map value or per array item
type schemaProp struct {
	Ref                  string      `json:"$ref"`
	AdditionalProperties *schemaProp `json:"additionalProperties"`
	Items                *schemaProp `json:"items"`
}

// verifySchema round-trips config through JSON and checks every key against the schema definitions
func verifySchema(schemaData string, cfg *Config) error {
	var schema struct {
		Definitions map[string]schemaDef `json:"$defs"`
	}
	if err := json.Unmarshal([]byte(schemaData), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}
	if _, ok := schema.Definitions["Config"]; !ok {
		return fmt.Errorf("embedded schema has no Config definition")
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return checkKeys(schema.Definitions, "Config", configMap, "")
}

// checkKeys reports the first config key not described by the named definition
func checkKeys(defs map[string]schemaDef, name string, values map[string]any, path string) error {
	def, ok := defs[name]
	if !ok {
		return fmt.Errorf("embedded schema has no %s definition", name)
	}
	for _, key := range sortedKeys(values) {
		prop, ok := def.Properties[key]
		if !ok {
			return fmt.Errorf("config field %q is not in embedded schema", path+key)
		}
		if err := checkValue(defs, prop, values[key], path+key); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(defs map[string]schemaDef, prop schemaProp, value any, path string) error {
	switch v := value.(type) {
	case map[string]any:
		if prop.Ref != "" {
			return checkKeys(defs, refName(prop.Ref), v, path+".")
		}
		if prop.AdditionalProperties != nil {
			for _, k := range sortedKeys(v) {
				if err := checkValue(defs, *prop.AdditionalProperties, v[k], path+"."+k); err != nil {
					return err
				}
			}
		}
	case []any:
		if prop.Items != nil {
			for i, item := range v {
				if err := checkValue(defs, *prop.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func refName(ref string) string {
	return strings.TrimPrefix(ref, "#/$defs/")
}

// validateRequiredFields performs basic validation of required fields
func validateRequiredFields(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.Timeout == 0 {
		return fmt.Errorf("server.timeout is required")
	}
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if cfg.Notify.Enabled {
		if len(cfg.Notify.Sinks) == 0 {
			return fmt.Errorf("notify.sinks is required when notifications are enabled")
		}
		if cfg.Notify.MaxAttempts == 0 {
			return fmt.Errorf("notify.max_attempts is required when notifications are enabled")
		}
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() (*jsonschema.Schema, error) {
	return jsonschema.Reflect(&Config{}), nil
}
