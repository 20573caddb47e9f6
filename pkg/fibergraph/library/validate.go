package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// assetSchema is the structural contract every stored asset must meet
// before decoding. It checks shape only; semantic rules (known node
// types, dangling connections) stay with hydration.
const assetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "nodes"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "root": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {"type": "array", "items": {"type": "string", "minLength": 1}}
      ]
    },
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "params": {"type": "object"},
          "inputs": {"type": "object"},
          "entityId": {"type": "string"},
          "metadata": {"type": "object"}
        }
      }
    },
    "connections": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["kind", "from", "to"],
        "properties": {
          "kind": {"enum": ["flow", "data"]},
          "from": {"$ref": "#/$defs/pinRef"},
          "to": {"$ref": "#/$defs/pinRef"}
        }
      }
    },
    "metadata": {"type": "object"}
  },
  "$defs": {
    "pinRef": {
      "type": "object",
      "required": ["nodeId", "pinId"],
      "properties": {
        "nodeId": {"type": "string", "minLength": 1},
        "pinId": {"type": "string", "minLength": 1}
      }
    }
  }
}`

// unmarshalJSON decodes JSON the way the jsonschema package expects,
// using json.Number so numeric validation keywords behave correctly.
func unmarshalJSON(r io.Reader) (any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	if t, _ := decoder.Token(); t != nil {
		return nil, fmt.Errorf("invalid character %v after top-level value", t)
	}
	return doc, nil
}

var compileSchema = sync.OnceValue(func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("asset.schema.json", bytes.NewReader([]byte(assetSchema))); err != nil {
		panic(err)
	}
	return c.MustCompile("asset.schema.json")
})

// ValidateAsset checks raw asset bytes against the asset schema. YAML
// payloads are decoded to generic values first so both formats share
// one schema.
func ValidateAsset(data []byte, format Format) error {
	var doc any
	switch format {
	case FormatJSON:
		var err error
		doc, err = unmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("asset is not valid json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("asset is not valid yaml: %w", err)
		}
		doc = normalizeYAML(doc)
	default:
		return fmt.Errorf("unsupported asset format %q", format)
	}

	if err := compileSchema().Validate(doc); err != nil {
		return fmt.Errorf("asset schema: %w", err)
	}
	return nil
}

// normalizeYAML rewrites yaml.v3's map[string]any values into the
// json-shaped tree the schema validator expects. yaml.v3 already keys
// maps by string; the recursion covers nested slices and maps.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	default:
		return val
	}
}
