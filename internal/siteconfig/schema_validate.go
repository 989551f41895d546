package siteconfig

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/keyforge/internal/errkind"
)

// configSchemaJSON is the structural shape a site configuration file
// must satisfy before it is unmarshaled into Config, catching typos
// (an unexpected field, a schema given as a number) with a precise
// message instead of a silent zero value or a generic YAML error.
const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "default_schema": {"type": "string"},
    "sites": {
      "type": "object",
      "additionalProperties": {
        "type": ["object", "string"],
        "additionalProperties": false,
        "properties": {
          "host": {"type": "string"},
          "schema": {"type": "string"},
          "username": {"type": "string"},
          "increment": {"type": "integer", "minimum": 0},
          "aliases": {"type": "array", "items": {"type": "string"}},
          "archived": {"type": "boolean"}
        }
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource("config.json", strings.NewReader(configSchemaJSON)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile("config.json")
	})
	return compiled, compileErr
}

// Validate checks raw YAML site configuration against the structural
// schema before it is unmarshaled.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return errkind.Wrap(errkind.IoError, "compiling site configuration schema", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errkind.Wrap(errkind.IoError, "parsing site configuration", err)
	}
	doc = normalizeForValidation(doc)

	if err := schema.Validate(doc); err != nil {
		return errkind.Wrap(errkind.IoError, "site configuration failed validation", err)
	}
	return nil
}

// normalizeForValidation converts yaml.v3's map[string]interface{} (and
// integer) decoding into the map[string]interface{}/float64 shapes
// jsonschema/v5 expects, mirroring a plain encoding/json round trip.
func normalizeForValidation(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(vv))
		for k, val := range vv {
			out[k] = normalizeForValidation(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(vv))
		for i, val := range vv {
			out[i] = normalizeForValidation(val)
		}
		return out
	case int:
		return float64(vv)
	case uint64:
		return float64(vv)
	default:
		return v
	}
}
