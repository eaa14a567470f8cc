package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a content document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format from a file extension. Anything that is not
// .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses one collection into the catalog. The document may be a bare
// list of entries or a mapping with the collection name as its key.
func (c *Catalog) Decode(collection string, data []byte, format Format) error {
	var err error
	switch collection {
	case CollectionQuestions:
		c.Questions, err = decodeList[Question](collection, data, format)
	case CollectionOpportunities:
		c.Opportunities, err = decodeList[Opportunity](collection, data, format)
	case CollectionEvents:
		c.Events, err = decodeList[Event](collection, data, format)
	default:
		return fmt.Errorf("unknown content collection %q", collection)
	}
	return err
}

// DecodeCatalog parses a single document holding all three collections.
func DecodeCatalog(data []byte, format Format) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	}
	return &c, nil
}

func decodeList[T any](collection string, data []byte, format Format) ([]T, error) {
	switch format {
	case FormatYAML:
		return decodeYAMLList[T](collection, data)
	default:
		return decodeJSONList[T](collection, data)
	}
}

func decodeJSONList[T any](collection string, data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse %s json: %w", collection, err)
		}
		return list, nil
	}

	var wrapped map[string][]T
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse %s json: %w", collection, err)
	}
	list, ok := wrapped[collection]
	if !ok {
		return nil, fmt.Errorf("%s json has no %q key", collection, collection)
	}
	return list, nil
}

func decodeYAMLList[T any](collection string, data []byte) ([]T, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s yaml: %w", collection, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		var wrapped map[string][]T
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse %s yaml: %w", collection, err)
		}
		list, ok := wrapped[collection]
		if !ok {
			return nil, fmt.Errorf("%s yaml has no %q key", collection, collection)
		}
		return list, nil
	}

	var list []T
	if err := root.Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse %s yaml: %w", collection, err)
	}
	return list, nil
}
