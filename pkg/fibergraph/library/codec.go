package library

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph"
)

// Format identifies an asset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath maps a file extension to its asset format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported asset extension %q", filepath.Ext(path))
	}
}

// DecodeAsset parses raw bytes into a graph asset. The payload is
// schema-validated before decoding so structural mistakes surface as
// schema errors rather than zero-valued fields.
func DecodeAsset(data []byte, format Format) (*fibergraph.GraphAsset, error) {
	if err := ValidateAsset(data, format); err != nil {
		return nil, err
	}

	var asset fibergraph.GraphAsset
	switch format {
	case FormatJSON:
		if err := sonic.Unmarshal(data, &asset); err != nil {
			return nil, fmt.Errorf("decode json asset: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &asset); err != nil {
			return nil, fmt.Errorf("decode yaml asset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported asset format %q", format)
	}

	if asset.ID == "" {
		return nil, fmt.Errorf("asset has no id")
	}
	return &asset, nil
}

// EncodeAsset serializes an asset in the given format.
func EncodeAsset(asset *fibergraph.GraphAsset, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := sonic.MarshalIndent(asset, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json asset: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(asset)
		if err != nil {
			return nil, fmt.Errorf("encode yaml asset: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported asset format %q", format)
	}
}
