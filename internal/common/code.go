package common

import (
	"fmt"
	"strings"
)

// Code accumulates generated Go source. Indentation is left to gofmt.
type Code struct {
	b strings.Builder
}

// Line appends s and a newline.
func (c *Code) Line(s string) {
	c.b.WriteString(s)
	c.b.WriteByte('\n')
}

// Raw appends s unchanged.
func (c *Code) Raw(s string) {
	c.b.WriteString(s)
}

// Linef appends a formatted line.
func (c *Code) Linef(format string, args ...any) {
	fmt.Fprintf(&c.b, format, args...)
	c.b.WriteByte('\n')
}

// ReturnIfErr appends the usual error check for a call producing an error.
func (c *Code) ReturnIfErr(call string, results ...string) {
	c.Linef("if err := %s; err != nil {", call)
	c.Line("return " + strings.Join(append(results, "err"), ", "))
	c.Line("}")
}

func (c *Code) String() string {
	return c.b.String()
}
