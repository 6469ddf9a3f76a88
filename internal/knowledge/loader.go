package knowledge

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var defaultAsset []byte

// Document is the on-disk shape of a knowledge dataset.
type Document struct {
	Version  int               `yaml:"version"`
	Crops    []CropSpec        `yaml:"crops"`
	Symptoms []SymptomSpec     `yaml:"symptoms"`
	Diseases []DiseaseSpec     `yaml:"diseases"`
	Meta     map[string]string `yaml:"meta,omitempty"`
}

// CropSpec declares a crop and its ordered disease list.
type CropSpec struct {
	ID       string            `yaml:"id"`
	NameKey  string            `yaml:"name_key"`
	Names    map[string]string `yaml:"names"`
	Image    string            `yaml:"image"`
	Diseases []string          `yaml:"diseases"`
}

// SymptomSpec declares a symptom.
type SymptomSpec struct {
	ID             string            `yaml:"id"`
	NameKey        string            `yaml:"name_key"`
	DescriptionKey string            `yaml:"description_key"`
	Names          map[string]string `yaml:"names"`
	Image          string            `yaml:"image"`
}

// DiseaseSpec declares a disease, its symptom signature and ordered remedies.
type DiseaseSpec struct {
	ID             string            `yaml:"id"`
	NameKey        string            `yaml:"name_key"`
	DescriptionKey string            `yaml:"description_key"`
	Names          map[string]string `yaml:"names"`
	Symptoms       []string          `yaml:"symptoms"`
	Remedies       []string          `yaml:"remedies"`
}

// Parse decodes a YAML dataset. Unknown fields are rejected so a typo in a
// dataset fails loading instead of silently dropping data.
func Parse(data []byte) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("knowledge: parse dataset: %w", err)
	}
	if doc.Version <= 0 {
		return Document{}, fmt.Errorf("knowledge: dataset missing version")
	}
	return doc, nil
}

// Load reads and builds a knowledge base from a YAML file.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Default builds the knowledge base shipped with the binary.
func Default() (*KnowledgeBase, error) {
	doc, err := Parse(defaultAsset)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}
