// Package gcode assembles horizontal drilling programs for the router
// controller.
package gcode

import (
	"fmt"
	"strings"
)

// Program is an assembled G-code program. It cannot be changed once built.
type Program struct {
	name  string
	lines []string
}

func (p Program) Name() string {
	return p.name
}

// Lines returns a copy of the program lines.
func (p Program) Lines() []string {
	return append([]string(nil), p.lines...)
}

func (p Program) Len() int {
	return len(p.lines)
}

// String joins the lines with LF and ends with a newline.
func (p Program) String() string {
	if len(p.lines) == 0 {
		return ""
	}
	return strings.Join(p.lines, "\n") + "\n"
}

// builder accumulates lines during assembly.
type builder struct {
	lines []string
}

func (b *builder) printf(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *builder) append(lines ...string) {
	b.lines = append(b.lines, lines...)
}

func (b *builder) snapshot() []string {
	return append([]string(nil), b.lines...)
}

func (b *builder) program(name string) Program {
	return Program{name: name, lines: b.snapshot()}
}
