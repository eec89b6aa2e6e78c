package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/erraggy/kvapi/internal/issues"
	"github.com/erraggy/kvapi/internal/naming"
	"github.com/erraggy/kvapi/internal/options"
	"github.com/erraggy/kvapi/internal/severity"
	"github.com/erraggy/kvapi/kverrors"
	"github.com/erraggy/kvapi/parser"
)

// DefaultRuntimeImport is the import path of the runtime package generated
// code calls into.
const DefaultRuntimeImport = "github.com/erraggy/kvapi/kvclient"

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates output that differs from what the description asked for
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates validation errors
	SeverityError = severity.SeverityError
	// SeverityCritical indicates output that could not be generated
	SeverityCritical = severity.SeverityCritical
)

// GenerateIssue represents a single generation issue or limitation
type GenerateIssue = issues.Issue

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "binance_kvapi.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// GenerateResult contains the results of generating code from an API description
type GenerateResult struct {
	// Files contains all generated files
	Files []GeneratedFile
	// SourcePath is the description the code was generated from
	SourcePath string
	// SourceFormat is the format the description was parsed as
	SourceFormat parser.SourceFormat
	// PackageName is the Go package name used in generation
	PackageName string
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if generation completed without critical issues
	Success bool
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to generate code
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Stats contains statistical information about the description
	Stats parser.Stats
	// GeneratedTypes lists the generated type names, top-level type first
	GeneratedTypes []string
	// GeneratedEndpoints lists the naming paths of the generated leaf types
	GeneratedEndpoints []string
}

// HasCriticalIssues returns true if there are any critical issues
func (r *GenerateResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator handles code generation from API descriptions
type Generator struct {
	// PackageName is the Go package name for generated code.
	// If empty, it is derived from the description name, falling back to "api".
	PackageName string

	// FileName is the output file name.
	// If empty, it is the snake_case description name with a "_kvapi.go" suffix.
	FileName string

	// RuntimeImport is the import path of the kvclient runtime.
	// If empty, DefaultRuntimeImport is used.
	RuntimeImport string

	// Imports are extra import paths added to the generated file, for
	// packages referenced by header and query expressions that goimports
	// cannot resolve on its own.
	Imports []string

	// StrictMode causes generation to fail on any issues (even warnings)
	StrictMode bool

	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool

	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger parser.Logger
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		RuntimeImport: DefaultRuntimeImport,
		StrictMode:    false,
		IncludeInfo:   true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (g *Generator) log() parser.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return parser.NopLogger{}
}

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	bytes    []byte
	parsed   *parser.ParseResult

	// Configuration options
	format        parser.SourceFormat
	packageName   string
	fileName      string
	runtimeImport string
	imports       []string
	strictMode    bool
	includeInfo   bool
	logger        parser.Logger
}

// GenerateWithOptions generates code from an API description using functional options.
// This provides a flexible, extensible API that combines input source selection
// and configuration in a single function call.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("binance.kv"),
//	    generator.WithPackageName("binance"),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := &Generator{
		PackageName:   cfg.packageName,
		FileName:      cfg.fileName,
		RuntimeImport: cfg.runtimeImport,
		Imports:       cfg.imports,
		StrictMode:    cfg.strictMode,
		IncludeInfo:   cfg.includeInfo,
		Logger:        cfg.logger,
	}

	// Route to appropriate generation method based on input source
	switch {
	case cfg.filePath != nil:
		return g.generateFrom(func(p *parser.Parser) (*parser.ParseResult, error) {
			p.Format = cfg.format
			return p.Parse(*cfg.filePath)
		})
	case cfg.bytes != nil:
		return g.generateFrom(func(p *parser.Parser) (*parser.ParseResult, error) {
			p.Format = cfg.format
			return p.ParseBytes(cfg.bytes)
		})
	case cfg.parsed != nil:
		return g.GenerateParsed(*cfg.parsed)
	}

	// Should never reach here due to validation in applyOptions
	return nil, fmt.Errorf("generator: no input source specified")
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		// Set defaults
		runtimeImport: DefaultRuntimeImport,
		strictMode:    false,
		includeInfo:   true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.RequireOneSource("generator",
		options.Source{Option: "WithFilePath", Set: cfg.filePath != nil},
		options.Source{Option: "WithBytes", Set: cfg.bytes != nil},
		options.Source{Option: "WithParsed", Set: cfg.parsed != nil},
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a description file as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies the description text as the input source
func WithBytes(data []byte) Option {
	return func(cfg *generateConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithParsed specifies a parsed ParseResult as the input source
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *generateConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithFormat forces the source format for WithFilePath and WithBytes.
// Default: detected
func WithFormat(f parser.SourceFormat) Option {
	return func(cfg *generateConfig) error {
		cfg.format = f
		return nil
	}
}

// WithPackageName specifies the Go package name for generated code
// Default: derived from the description name
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if name == "" {
			return fmt.Errorf("generator: package name cannot be empty")
		}
		if !naming.IsIdentifier(name) {
			return &kverrors.ConfigError{Option: "package", Value: name, Message: "package name must be a Go identifier"}
		}
		cfg.packageName = name
		return nil
	}
}

// WithFileName specifies the output file name
// Default: <snake_case name>_kvapi.go
func WithFileName(name string) Option {
	return func(cfg *generateConfig) error {
		if name == "" {
			return fmt.Errorf("generator: file name cannot be empty")
		}
		if strings.ContainsAny(name, `/\`) {
			return &kverrors.ConfigError{Option: "file", Value: name, Message: "file name must not contain path separators"}
		}
		cfg.fileName = name
		return nil
	}
}

// WithRuntimeImport sets the import path of the kvclient runtime
// Default: DefaultRuntimeImport
func WithRuntimeImport(importPath string) Option {
	return func(cfg *generateConfig) error {
		if importPath == "" {
			return fmt.Errorf("generator: runtime import path cannot be empty")
		}
		cfg.runtimeImport = importPath
		return nil
	}
}

// WithImports adds import paths for packages used by header and query expressions
func WithImports(paths ...string) Option {
	return func(cfg *generateConfig) error {
		cfg.imports = append(cfg.imports, paths...)
		return nil
	}
}

// WithStrictMode enables or disables strict mode (fail on any issues)
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets the logger for parsing and generation
// Default: no logging
func WithLogger(l parser.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.logger = l
		return nil
	}
}

// Generate generates code from the API description file at specPath
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	return g.generateFrom(func(p *parser.Parser) (*parser.ParseResult, error) {
		return p.Parse(specPath)
	})
}

func (g *Generator) generateFrom(parse func(*parser.Parser) (*parser.ParseResult, error)) (*GenerateResult, error) {
	p := parser.New()
	p.Logger = g.Logger

	parseResult, err := parse(p)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to parse description: %w", err)
	}
	return g.GenerateParsed(*parseResult)
}

// GenerateParsed generates code from an already-parsed API description
func (g *Generator) GenerateParsed(parseResult parser.ParseResult) (*GenerateResult, error) {
	startTime := time.Now()
	s := parseResult.Spec
	if s == nil {
		return nil, fmt.Errorf("generator: parse result has no description")
	}

	// Initialize result
	result := &GenerateResult{
		Files:        make([]GeneratedFile, 0, 1),
		SourcePath:   parseResult.SourcePath,
		SourceFormat: parseResult.SourceFormat,
		PackageName:  g.PackageName,
		Issues:       make([]GenerateIssue, 0),
		LoadTime:     parseResult.LoadTime,
		SourceSize:   parseResult.SourceSize,
		Stats:        parseResult.Stats,
	}
	if result.PackageName == "" {
		result.PackageName = packageNameFor(s.Name)
	}
	fileName := g.FileName
	if fileName == "" {
		fileName = fileNameFor(s.Name)
	}
	runtime := g.RuntimeImport
	if runtime == "" {
		runtime = DefaultRuntimeImport
	}

	log := g.log().With("source", parseResult.SourcePath, "name", s.Name)

	file := &File{
		Name:          fileName,
		Package:       result.PackageName,
		Source:        parseResult.SourcePath,
		RuntimeImport: runtime,
		RuntimeAlias:  runtimeAlias(runtime),
		Imports:       g.Imports,
	}
	b := newIRBuilder(s, log)
	if err := b.build(file); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	result.Issues = append(result.Issues, b.issues...)

	content, fmtErr := render(file)
	if content == nil {
		return nil, fmt.Errorf("generator: failed to render %s: %w", fileName, fmtErr)
	}
	if fmtErr != nil {
		result.Issues = append(result.Issues, GenerateIssue{
			Message:  "generated source could not be formatted",
			Severity: SeverityCritical,
			Context:  fmtErr.Error(),
			File:     fileName,
		})
	}
	result.Files = append(result.Files, GeneratedFile{Name: fileName, Content: content})

	result.GeneratedTypes = append(result.GeneratedTypes, file.Root.Name)
	for _, t := range file.Types {
		result.GeneratedTypes = append(result.GeneratedTypes, t.Name)
		if t.IsLeaf() {
			result.GeneratedEndpoints = append(result.GeneratedEndpoints, string(t.ID))
		}
	}

	// Update counts and timing
	result.GenerateTime = time.Since(startTime)
	g.updateCounts(result)
	result.Success = result.CriticalCount == 0

	log.Debug("generated",
		"file", fileName,
		"types", len(result.GeneratedTypes),
		"endpoints", len(result.GeneratedEndpoints),
		"bytes", len(content))

	// In strict mode, fail on any issues
	if g.StrictMode && (result.CriticalCount > 0 || result.WarningCount > 0) {
		return result, fmt.Errorf("generator: generation failed in strict mode: %d critical issue(s), %d warning(s)",
			result.CriticalCount, result.WarningCount)
	}

	// Filter info messages if not included
	if !g.IncludeInfo {
		filtered := make([]GenerateIssue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
		result.InfoCount = 0
	}

	return result, nil
}

// updateCounts updates the issue counts in the result
func (g *Generator) updateCounts(result *GenerateResult) {
	result.InfoCount = 0
	result.WarningCount = 0
	result.CriticalCount = 0

	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityInfo:
			result.InfoCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityCritical:
			result.CriticalCount++
		}
	}
}
