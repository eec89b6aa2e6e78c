package spec

import (
	"go/token"

	"github.com/erraggy/kvapi/kverrors"
)

// Specification is one parsed API description.
type Specification struct {
	// Name becomes the top-level generated type.
	Name    string
	NamePos Position
	// Base is prepended to every endpoint URL (optional).
	Base *string
	// Entries in declaration order.
	Entries []Entry
	Headers HeaderSet
	// Query is appended to every endpoint URL, after the entry's own query (optional).
	Query *Expression
	// Dict is set by Validate.
	Dict *Dictionary
	// SourcePath is the file the description was read from, if any.
	SourcePath string
}

// Validate checks the mandatory fields and builds the dictionary. Nothing is
// built when name or dict is missing.
func (s *Specification) Validate() error {
	if s.Name == "" {
		return &kverrors.ConfigError{Option: "name", Path: s.SourcePath, Message: "required field is missing"}
	}
	if !token.IsIdentifier(s.Name) {
		return &kverrors.ConfigError{
			Option:  "name",
			Value:   s.Name,
			Path:    s.SourcePath,
			Line:    s.NamePos.Line,
			Column:  s.NamePos.Column,
			Message: "name must be a Go identifier",
		}
	}
	if len(s.Entries) == 0 {
		return &kverrors.ConfigError{
			Option:  "dict",
			Path:    s.SourcePath,
			Message: "required field is missing or empty",
		}
	}
	dict, err := BuildDictionary(s.Entries)
	if err != nil {
		return err
	}
	s.Dict = dict
	return nil
}

// BaseURL returns the base URL, or "" when none was declared.
func (s *Specification) BaseURL() string {
	if s.Base == nil {
		return ""
	}
	return *s.Base
}
