// Package requests decodes translation batches from YAML, JSON and TOML.
package requests

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"xcmerge/internal/domain"
	"xcmerge/internal/domain/entities"
	"xcmerge/pkg/jsonobj"
)

// Format names a batch file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownFormat, path)
	}
}

// LoadFile reads a batch file. The request is named after the file.
func LoadFile(path string) (entities.UpdateRequest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return entities.UpdateRequest{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.UpdateRequest{}, fmt.Errorf("read request file: %w", err)
	}
	return Parse(filepath.Base(path), format, data)
}

// Parse decodes a batch document:
//
//	description: free text
//	locale: sv
//	policy: keep
//	translations:
//	  "Save": "Spara"
//
// YAML and JSON keep the order of translations. TOML tables have no order,
// so TOML translations are sorted by phrase. Null or empty translations are
// rejected so a typo cannot blank an existing value.
func Parse(name string, format Format, data []byte) (entities.UpdateRequest, error) {
	var (
		h     header
		pairs []entities.Translation
		err   error
	)
	switch format {
	case FormatYAML:
		h, pairs, err = parseYAML(data)
	case FormatJSON:
		h, pairs, err = parseJSON(data)
	case FormatTOML:
		h, pairs, err = parseTOML(data)
	default:
		err = fmt.Errorf("%w: %s", domain.ErrUnknownFormat, format)
	}
	if err != nil {
		return entities.UpdateRequest{}, fmt.Errorf("%s: %w", name, err)
	}
	if len(pairs) == 0 {
		return entities.UpdateRequest{}, fmt.Errorf("%s: %w", name, domain.ErrEmptyRequest)
	}
	for _, p := range pairs {
		if p.Target == "" {
			return entities.UpdateRequest{}, fmt.Errorf("%s: %w: %q is empty", name, domain.ErrInvalidValue, p.Source)
		}
	}

	req := entities.NewUpdateRequest(name, "", pairs)
	req.Description = h.Description
	req.Policy = h.Policy
	if h.Locale != "" {
		if req.Locale, err = domain.NormalizeLocale(h.Locale); err != nil {
			return entities.UpdateRequest{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	if h.Policy != "" {
		if _, err := domain.ParsePolicy(h.Policy); err != nil {
			return entities.UpdateRequest{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return req, nil
}

type header struct {
	Description string `yaml:"description" json:"description"`
	Locale      string `yaml:"locale" json:"locale"`
	Policy      string `yaml:"policy" json:"policy"`
}

func parseYAML(data []byte) (header, []entities.Translation, error) {
	var doc struct {
		header       `yaml:",inline"`
		Translations yaml.Node `yaml:"translations"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return header{}, nil, fmt.Errorf("parse yaml: %w", err)
	}
	node := doc.Translations
	if node.Kind == 0 {
		return doc.header, nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return doc.header, nil, fmt.Errorf("parse yaml: translations must be a mapping (line %d)", node.Line)
	}

	pairs := make([]entities.Translation, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return doc.header, nil, fmt.Errorf("parse yaml: line %d: phrase and translation must be strings", k.Line)
		}
		if v.ShortTag() == "!!null" {
			return doc.header, nil, fmt.Errorf("line %d: %w: %q is null", k.Line, domain.ErrInvalidValue, k.Value)
		}
		pairs = append(pairs, entities.Translation{Source: k.Value, Target: v.Value})
	}
	return doc.header, pairs, nil
}

func parseJSON(data []byte) (header, []entities.Translation, error) {
	var doc struct {
		header
		Translations *jsonobj.Map[*string] `json:"translations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return header{}, nil, fmt.Errorf("parse json: %w", err)
	}
	pairs := make([]entities.Translation, 0, doc.Translations.Len())
	for source, target := range doc.Translations.All() {
		if target == nil {
			return doc.header, nil, fmt.Errorf("%w: %q is null", domain.ErrInvalidValue, source)
		}
		pairs = append(pairs, entities.Translation{Source: source, Target: *target})
	}
	return doc.header, pairs, nil
}

func parseTOML(data []byte) (header, []entities.Translation, error) {
	var doc struct {
		Description  string            `toml:"description"`
		Locale       string            `toml:"locale"`
		Policy       string            `toml:"policy"`
		Translations map[string]string `toml:"translations"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return header{}, nil, fmt.Errorf("parse toml: %w", err)
	}
	h := header{Description: doc.Description, Locale: doc.Locale, Policy: doc.Policy}
	sources := make([]string, 0, len(doc.Translations))
	for s := range doc.Translations {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	pairs := make([]entities.Translation, 0, len(sources))
	for _, s := range sources {
		pairs = append(pairs, entities.Translation{Source: s, Target: doc.Translations[s]})
	}
	return h, pairs, nil
}
