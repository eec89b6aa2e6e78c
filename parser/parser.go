package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/kvapi/spec"
)

// Parser reads kvapi API descriptions.
type Parser struct {
	// Format forces the source format. SourceFormatUnknown means detect it
	// from the file extension, falling back to the kv grammar.
	Format SourceFormat
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of an API description
type SourceFormat string

const (
	// SourceFormatKV is the `name: ..., dict: { ... }` grammar
	SourceFormatKV SourceFormat = "kv"
	// SourceFormatYAML is the YAML (or JSON) form
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatUnknown means the format is detected
	SourceFormatUnknown SourceFormat = ""
)

// ParseSourceFormat converts a user-supplied format name.
func ParseSourceFormat(s string) (SourceFormat, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return SourceFormatUnknown, nil
	case "kv", "kvapi":
		return SourceFormatKV, nil
	case "yaml", "yml", "json":
		return SourceFormatYAML, nil
	default:
		return SourceFormatUnknown, fmt.Errorf("parser: unknown format %q (want kv or yaml)", s)
	}
}

// ParseResult contains a parsed and validated API description.
//
// Callers should treat ParseResult as read-only after parsing.
type ParseResult struct {
	// SourcePath is the description's input source path that it was read from.
	// Note: if the source was not a file path, this will be set to the name of
	// the method and end in '.kv' or '.yaml' based on the format
	SourcePath string
	// SourceFormat is the format the description was parsed as
	SourceFormat SourceFormat
	// Spec is the parsed description, with its dictionary built
	Spec *spec.Specification
	// LoadTime is the time taken to read the source data
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Stats contains statistical information about the description
	Stats Stats
}

// Parse parses the API description in the file at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := os.ReadFile(path)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}

	format := p.Format
	if format == SourceFormatUnknown {
		format = detectFormatFromPath(path)
	}
	res, err := p.parse(path, format, data)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseReader parses an API description from an io.Reader
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseReader.kv or ParseReader.yaml
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	loadStart := time.Now()
	data, err := io.ReadAll(r)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	res, err := p.parseAnonymous("ParseReader", data)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseBytes parses an API description from a byte slice
// Note: since there is no actual ParseResult.SourcePath, it will be set to: ParseBytes.kv or ParseBytes.yaml
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	return p.parseAnonymous("ParseBytes", data)
}

func (p *Parser) parseAnonymous(method string, data []byte) (*ParseResult, error) {
	format := p.Format
	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}
	if format == SourceFormatUnknown {
		format = SourceFormatKV
	}
	return p.parse(method+"."+string(format), format, data)
}

func (p *Parser) parse(path string, format SourceFormat, data []byte) (*ParseResult, error) {
	log := p.log().With("source", path)
	log.Debug("parsing description", "format", string(format), "size", len(data))

	var (
		s   *spec.Specification
		err error
	)
	switch format {
	case SourceFormatYAML:
		s, err = p.yamlDescription(path, data)
	default:
		format = SourceFormatKV
		var lx *lexer
		if lx, err = newLexer(path, data); err == nil {
			s, err = p.description(lx)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	res := &ParseResult{
		SourcePath:   path,
		SourceFormat: format,
		Spec:         s,
		SourceSize:   int64(len(data)),
		Stats:        GetStats(s),
	}
	log.Debug("parsed description",
		"name", s.Name,
		"entries", res.Stats.EntryCount,
		"nodes", res.Stats.NodeCount,
		"headers", res.Stats.HeaderCount)
	return res, nil
}

// detectFormatFromPath detects the source format from a file path
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return SourceFormatYAML
	default:
		return SourceFormatKV
	}
}

// detectFormatFromContent guesses the format of anonymous input. Text that
// opens with the `api` keyword or contains an attribute list is the kv grammar.
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("api")) || bytes.Contains(trimmed, []byte("#[")) {
		return SourceFormatKV
	}
	if bytes.HasPrefix(trimmed, []byte("---")) {
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}
