// Package kverrors provides structured error types for kvapi.
//
// Import path: github.com/erraggy/kvapi/kverrors
//
// Every failure to read or compile an API description is one of two kinds:
//
//   - [ParseError]: the input does not match the grammar (wrong token kind,
//     unknown field or attribute, missing delimiter, a rename argument that
//     is not a string literal, an expression that is not valid Go)
//   - [ConfigError]: the input is well-formed but cannot be compiled (missing
//     name or dict, empty dictionary, a path with no segments, two endpoints
//     at the same tree position, colliding generated names)
//
// Both carry the source location when one is known and match a sentinel via
// errors.Is:
//
//	_, err := parser.ParseWithOptions(parser.WithFilePath("kucoin.kv"))
//	if errors.Is(err, kverrors.ErrParse) {
//	    // grammar problem
//	}
//
//	var cfgErr *kverrors.ConfigError
//	if errors.As(err, &cfgErr) {
//	    fmt.Println(cfgErr.Option, cfgErr.Line)
//	}
//
// Runtime failures of generated clients live in package kvclient.
package kverrors
