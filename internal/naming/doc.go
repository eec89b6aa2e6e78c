// Package naming provides shared case conversion utilities for kvapi packages.
//
// Path segments of an API description ("allTickers", "24hr", "api-v1") are
// turned into Go identifiers by the generator: snake_case for the field keys
// recorded in the IR and exported PascalCase for type and field names.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
