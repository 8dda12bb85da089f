/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keygen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// Header is the first line of every generated file.
const Header = "// Code generated by deltakeys. DO NOT EDIT."

var keysTemplate = template.Must(template.New("keys").Parse(Header + `

package {{.Package}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{range $t := .Types}}
// {{$t.Name}}Fields holds the typed field keys of {{$t.Name}}.
var {{$t.Name}}Fields = struct {
{{range $t.Fields}}	{{.Name}} registry.Field[{{$t.Name}}, {{.Type}}]
{{end}}}{
{{range $t.Fields}}	{{.Name}}: registry.MustField[{{$t.Name}}, {{.Type}}]("{{.Name}}"),
{{end}}}
{{end}}`))

// Render executes the key template for f and formats the result with gofmt.
func Render(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := keysTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("formatting code: %w", err)
	}
	return formatted, nil
}
