package generator

import "golang.org/x/tools/imports"

// formatAndFixImports formats Go source code and automatically fixes imports.
// It adds missing imports for packages referenced by header and query
// expressions and removes unused ones using goimports-equivalent processing.
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
