package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Format identifies a catalog file encoding
type Format string

const (
	FormatCSV   Format = "csv"
	FormatYAML  Format = "yaml"
	FormatJSONC Format = "jsonc"
)

var csvHeader = []string{"id", "kind", "bike_type", "model", "variant", "teeth", "speeds", "weight", "price"}

// document is the shared YAML/JSON catalog layout
type document struct {
	Components []*entities.Component `json:"components" yaml:"components"`
}

// Loader reads component catalogs from CSV, YAML or JSONC files
type Loader struct{}

// NewLoader creates a new catalog loader
func NewLoader() *Loader {
	return &Loader{}
}

// FormatFor picks a catalog format from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc", ".hujson":
		return FormatJSONC, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q (expected .csv, .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}
}

// Load reads and validates a catalog file, dispatching on its extension
func (l *Loader) Load(path string) ([]*entities.Component, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	components, err := l.Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return components, nil
}

// LoadDefault returns the built-in catalog
func (l *Loader) LoadDefault() ([]*entities.Component, error) {
	components, err := l.Decode(bytes.NewReader(defaultCatalog), FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	return components, nil
}

// Decode reads a catalog in the given format and validates every component
func (l *Loader) Decode(r io.Reader, format Format) ([]*entities.Component, error) {
	var (
		components []*entities.Component
		err        error
	)
	switch format {
	case FormatCSV:
		components, err = decodeCSV(r)
	case FormatYAML:
		components, err = decodeYAML(r)
	case FormatJSONC:
		components, err = decodeJSONC(r)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}

	if len(components) == 0 {
		return nil, fmt.Errorf("catalog contains no components")
	}
	for i, c := range components {
		if c == nil {
			return nil, fmt.Errorf("component %d is empty", i+1)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("component %d: %w", i+1, err)
		}
	}
	return components, nil
}

func decodeYAML(r io.Reader) ([]*entities.Component, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}
	return doc.Components, nil
}

func decodeJSONC(r io.Reader) ([]*entities.Component, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON catalog: %w", err)
	}
	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
	}

	var doc document
	decoder := json.NewDecoder(bytes.NewReader(standard))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON catalog: %w", err)
	}
	return doc.Components, nil
}

func decodeCSV(r io.Reader) ([]*entities.Component, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("catalog CSV must have header and at least one data row")
	}

	header := records[0]
	if !validateHeader(header, csvHeader) {
		return nil, fmt.Errorf("catalog CSV header mismatch. Expected: %v, Got: %v", csvHeader, header)
	}

	components := make([]*entities.Component, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("catalog CSV row %d: expected %d columns, got %d", i+2, len(csvHeader), len(record))
		}

		component, err := parseComponent(record)
		if err != nil {
			return nil, fmt.Errorf("catalog CSV row %d: %w", i+2, err)
		}
		components = append(components, component)
	}
	return components, nil
}

func parseComponent(record []string) (*entities.Component, error) {
	kind, err := entities.ParseComponentKind(strings.ToLower(record[1]))
	if err != nil {
		return nil, err
	}

	var bikeType entities.BikeType
	if record[2] != "" {
		bikeType, err = entities.ParseBikeType(record[2])
		if err != nil {
			return nil, err
		}
	}

	teeth, err := ParseTeeth(record[5])
	if err != nil {
		return nil, err
	}

	weight, err := parseOptionalFloat("weight", record[7])
	if err != nil {
		return nil, err
	}
	price, err := parseOptionalFloat("price", record[8])
	if err != nil {
		return nil, err
	}

	return &entities.Component{
		ID:       entities.ComponentID(record[0]),
		Kind:     kind,
		BikeType: bikeType,
		Model:    record[3],
		Variant:  record[4],
		Teeth:    teeth,
		Speeds:   record[6],
		Weight:   weight,
		Price:    price,
	}, nil
}

// ParseTeeth parses a tooth list written as "50/34" or "11-12-13"
func ParseTeeth(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ',' || r == ' ' || r == '-'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("teeth cannot be empty")
	}

	teeth := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.ToUpper(f), "T"))
		if err != nil {
			return nil, fmt.Errorf("invalid tooth count %q: %w", f, err)
		}
		teeth = append(teeth, n)
	}
	return teeth, nil
}

func parseOptionalFloat(field, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.TrimSpace(strings.ToLower(actual[i])) != col {
			return false
		}
	}
	return true
}
