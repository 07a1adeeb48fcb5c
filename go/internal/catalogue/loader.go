package catalogue

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk catalogue format
type File struct {
	Items []FileItem `yaml:"items"`
}

// FileItem is one catalogue entry; stats are free-form and stored as JSON
type FileItem struct {
	CreateItemRequest `yaml:",inline"`
	Stats             map[string]interface{} `yaml:"stats"`
}

// LoadFile reads a YAML catalogue into create requests
func LoadFile(path string) ([]CreateItemRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML catalogue content
func Parse(data []byte) ([]CreateItemRequest, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	reqs := make([]CreateItemRequest, 0, len(f.Items))
	for _, it := range f.Items {
		req := it.CreateItemRequest
		if len(it.Stats) > 0 {
			raw, err := json.Marshal(it.Stats)
			if err != nil {
				return nil, fmt.Errorf("encode stats for %q: %w", req.Name, err)
			}
			req.Stats = raw
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
