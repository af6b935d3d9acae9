package gcode

import (
	"fmt"
	"regexp"
	"strings"
)

// skipped reports lines that carry no machine words.
func skipped(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "(") || strings.HasPrefix(t, ";")
}

// Number prefixes N words to every line that is not blank or a comment.
// Numbers start at start and grow by step.
func Number(p Program, start, step int) Program {
	out := make([]string, len(p.lines))
	n := start
	for i, line := range p.lines {
		if skipped(line) {
			out[i] = line
			continue
		}
		out[i] = fmt.Sprintf("N%d %s", n, line)
		n += step
	}
	return Program{name: p.name, lines: out}
}

// The motion patterns require the G word to end at an axis or feed letter,
// a space or the end of the line, so G1 matches and G17 does not.
var (
	linearMove = regexp.MustCompile(`(?:N\d+)?G0*1(?:[XYZIJKRF\s]|$)`)
	cwArc      = regexp.MustCompile(`(?:N\d+)?G0*2(?:[XYZIJKRF\s]|$)`)
	ccwArc     = regexp.MustCompile(`(?:N\d+)?G0*3(?:[XYZIJKRF\s]|$)`)
	xWord      = regexp.MustCompile(`[Xx][+-]?[0-9.]+`)
	yWord      = regexp.MustCompile(`[Yy][+-]?[0-9.]+`)
	zWord      = regexp.MustCompile(`[Zz][+-]?[0-9.]+`)
	comment    = regexp.MustCompile(`\([^)]*\)`)
)

// motion returns the G code of a feed move on the line, or 0.
func motion(words string) int {
	switch {
	case linearMove.MatchString(words):
		return 1
	case cwArc.MatchString(words):
		return 2
	case ccwArc.MatchString(words):
		return 3
	}
	return 0
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertSafetyChecks puts a controller check before every feed move. The
// check loads the move type and the axes it touches into #600-#603 and calls
// M150. The result is framed by comments naming the source program. It
// returns the new program and the number of checks added.
func InsertSafetyChecks(p Program, source string) (Program, int) {
	var b builder
	b.append("(Safety-enhanced G-code generated by preprocessor)")
	b.printf("(Original file: %s)", source)
	b.append("")

	checks := 0
	for _, line := range p.lines {
		if skipped(line) {
			b.append(line)
			continue
		}
		words := comment.ReplaceAllString(line, "")
		g := motion(words)
		if g == 0 {
			b.append(line)
			continue
		}
		b.printf("#600 = %d", g)
		b.printf("#601 = %d", flag(xWord.MatchString(words)))
		b.printf("#602 = %d", flag(yWord.MatchString(words)))
		b.printf("#603 = %d", flag(zWord.MatchString(words)))
		b.append("M150", line)
		checks++
	}

	b.append("", "(End of safety-enhanced G-code)")
	b.printf("(Added %d safety checks)", checks)
	return b.program(p.name), checks
}
