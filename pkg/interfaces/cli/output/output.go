package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Format selects how documents are rendered
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "table", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (expected text, json or markdown)", s)
	}
}

// Extension returns the file extension used when saving a format
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Document is a renderable command result
type Document interface {
	// Name is the file stem used when saving to an output directory
	Name() string
	// Value is the JSON representation
	Value() interface{}
	WriteText(w io.Writer) error
	WriteMarkdown(w io.Writer) error
}

// Config holds configuration for output generation
type Config struct {
	Format    Format
	OutputDir string
	Stdout    io.Writer
	Logger    *zerolog.Logger
}

// Writer renders documents to stdout or into files in an output directory
type Writer struct {
	config Config
}

// NewWriter creates a writer, defaulting to text on os.Stdout
func NewWriter(config Config) *Writer {
	if config.Format == "" {
		config.Format = FormatText
	}
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = &log.Logger
	}
	return &Writer{config: config}
}

// Write renders doc. With an output directory the file is replaced atomically
// and its path is returned; otherwise the document goes to stdout.
func (w *Writer) Write(doc Document) (string, error) {
	if w.config.OutputDir == "" {
		return "", Render(w.config.Stdout, doc, w.config.Format)
	}

	var buf bytes.Buffer
	if err := Render(&buf, doc, w.config.Format); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.config.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.config.OutputDir, doc.Name()+w.config.Format.Extension())
	if err := atomic.WriteFile(path, &buf); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.config.Logger.Info().Str("path", path).Str("format", string(w.config.Format)).Msg("results saved")
	return path, nil
}

// Render writes doc to w in the given format
func Render(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatText:
		return doc.WriteText(w)
	case FormatMarkdown:
		return doc.WriteMarkdown(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc.Value()); err != nil {
			return fmt.Errorf("failed to encode %s: %w", doc.Name(), err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// printer accumulates the first write error so renderers can print freely
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

func (p *printer) list(prefix string, items []string) {
	for _, item := range items {
		p.printf("%s%s\n", prefix, item)
	}
}
