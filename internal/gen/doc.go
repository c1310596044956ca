// Package gen turns a prepared model batch into Go source files.
//
// Every type gets one file holding its adapter struct, the package-level
// instance, the constructor wiring the shared adapters and the generated
// methods. Adapters without an instance accessor are served by holder
// variables, emitted once per run into holders.go.
//
// Files are rendered with text/template and formatted with
// golang.org/x/tools/imports, which also drops unused imports. When
// formatting fails the raw source is written next to the output for
// debugging.
package gen
