package generator

import (
	"bytes"
	"embed"
	"strconv"
	"text/template"
)

//go:embed templates/*.tmpl templates/*/*.tmpl
var templateFS embed.FS

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/*.tmpl", "templates/*/*.tmpl")
	if err != nil {
		panic(err)
	}
}

// templateFuncs provides custom functions for templates
var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

// render executes the file template and formats the result. When formatting
// fails the unformatted source is returned together with the error; a nil
// result means the template itself failed.
func render(file *File) ([]byte, error) {
	buf := getTemplateBuffer(estimateSize(file))
	defer putTemplateBuffer(buf)

	if err := templates.ExecuteTemplate(buf, "file.go.tmpl", file); err != nil {
		return nil, err
	}

	// Format the output and fix imports using goimports-equivalent processing
	formatted, err := formatAndFixImports(file.Name, buf.Bytes())
	if err != nil {
		return bytes.Clone(buf.Bytes()), err
	}
	return formatted, nil
}
