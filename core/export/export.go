package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/daftari/core"
	"github.com/trezcool/daftari/core/document"
)

// Format selects an export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "txt"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Export is the downloadable rendition of a document.
type Export struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
}

// Warning reports malformed or missing metadata encountered during export.
// Warnings are never fatal: a safe placeholder is substituted instead.
type Warning struct {
	BlockID string `json:"block_id"`
	Message string `json:"message"`
}

// Exporter renders documents to markdown, JSON or plain text. JSON is the
// only format with a round-trip guarantee (see Import).
type Exporter struct {
	log core.Logger
}

func NewExporter(log core.Logger) *Exporter {
	return &Exporter{log: log}
}

// Export renders the document in the given format. Warnings are logged and
// returned; they never fail the export.
func (e *Exporter) Export(doc document.Document, format Format) (Export, []Warning, error) {
	var content []byte
	var warnings []Warning
	var mimeType string

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return Export{}, nil, errors.Wrap(err, "marshalling document")
		}
		content = data
		mimeType = "application/json"
	case FormatMarkdown:
		var md string
		md, warnings = renderMarkdown(doc)
		content = []byte(md)
		mimeType = "text/markdown"
	case FormatText:
		content = []byte(renderText(doc))
		mimeType = "text/plain"
	default:
		return Export{}, nil, ErrUnknownFormat
	}

	for _, w := range warnings {
		e.log.Warn(fmt.Sprintf("export: block %s: %s", w.BlockID, w.Message))
	}
	return Export{
		Filename: slugify(doc.Title) + "." + extension(format),
		MimeType: mimeType,
		Content:  content,
	}, warnings, nil
}

// Import reproduces a Document from a JSON export. Importing an export
// yields a Document identical to the one exported.
func (e *Exporter) Import(data []byte) (document.Document, error) {
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document.Document{}, errors.Wrap(err, "unmarshalling document")
	}
	return doc, nil
}

func extension(format Format) string {
	if format == FormatMarkdown {
		return "md"
	}
	return string(format)
}

// renderText joins block contents with a blank line between them; all
// type-specific markup is dropped. Contentless blocks (divider, image) are
// skipped entirely.
func renderText(doc document.Document) string {
	parts := make([]string, 0, len(doc.Blocks))
	for _, blk := range doc.Blocks {
		if document.IsContentless(blk.Type) {
			continue
		}
		parts = append(parts, blk.Content)
	}
	return strings.Join(parts, "\n\n")
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = slugRegex.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "document"
	}
	return s
}
