package gen

import (
	"text/template"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// adapterData holds all data needed for the adapter template.
type adapterData struct {
	PackageName      string
	Imports          []importSpec
	GenerateComments bool
	Adapter          string
	Handled          string
	OnUnknown        string
	Fields           []fieldData
	Methods          []string
}

type fieldData struct {
	Name string
	Type string
	Init string
}

// holdersData holds the data of the holder epilogue.
type holdersData struct {
	PackageName string
	Imports     []importSpec
	Holders     []holderData
}

type holderData struct {
	Name string
	Init string
	Ref  string
}

const header = "// Code generated by adapter-generator. DO NOT EDIT.\n"

var adapterTemplate = template.Must(template.New("adapter").Parse(header + `
package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{if .GenerateComments}}// {{.Adapter}} parses and serializes {{.Handled}}.
{{end}}type {{.Adapter}} struct {
	OnUnknown mapper.UnknownPropertyHandler
{{range .Fields}}	{{.Name}} {{.Type}}
{{end}}}

{{if .GenerateComments}}// {{.Adapter}}Instance is the shared {{.Adapter}}.
{{end}}var {{.Adapter}}Instance = New{{.Adapter}}()

{{if .GenerateComments}}// New{{.Adapter}} creates a {{.Adapter}} wired to its property adapters.
{{end}}func New{{.Adapter}}() *{{.Adapter}} {
	a := &{{.Adapter}}{OnUnknown: {{.OnUnknown}}}
{{range .Fields}}	a.{{.Name}} = {{.Init}}
{{end}}
	return a
}
{{range .Methods}}
{{.}}{{end}}`))

var holdersTemplate = template.Must(template.New("holders").Parse(header + `
package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
var (
{{range .Holders}}	// {{.Name}} holds the instance of {{.Ref}}.
	{{.Name}} = {{.Init}}
{{end}})
`))
