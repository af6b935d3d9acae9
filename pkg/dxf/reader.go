package dxf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"edgedrill/pkg/geometry"
)

// pair is one group code / value line pair.
type pair struct {
	code  int
	value string
	line  int
}

type pairReader struct {
	s    *bufio.Scanner
	line int
}

func newPairReader(r io.Reader) *pairReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &pairReader{s: s}
}

func (r *pairReader) readLine() (string, bool) {
	if !r.s.Scan() {
		return "", false
	}
	r.line++
	return strings.TrimSpace(r.s.Text()), true
}

func (r *pairReader) next() (pair, error) {
	codeText, ok := r.readLine()
	if !ok {
		if err := r.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, io.EOF
	}
	codeLine := r.line
	code, err := strconv.Atoi(codeText)
	if err != nil {
		return pair{}, fmt.Errorf("line %d: invalid group code %q", codeLine, codeText)
	}
	value, ok := r.readLine()
	if !ok {
		if err := r.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, fmt.Errorf("line %d: group code %d has no value", codeLine, code)
	}
	return pair{code: code, value: value, line: codeLine}, nil
}

type entity struct {
	kind  string
	pairs []pair
}

// Parse reads an ASCII DXF stream. Only the ENTITIES section is interpreted;
// entity types other than CIRCLE and LWPOLYLINE are ignored.
func Parse(r io.Reader) (*Drawing, error) {
	pr := newPairReader(r)
	d := &Drawing{}

	inEntities := false
	var current *entity
	flush := func() error {
		if current == nil {
			return nil
		}
		e := current
		current = nil
		switch e.kind {
		case "CIRCLE":
			c, err := decodeCircle(e.pairs)
			if err != nil {
				return err
			}
			d.circles = append(d.circles, c)
		case "LWPOLYLINE":
			p, err := decodePolyline(e.pairs)
			if err != nil {
				return err
			}
			d.polylines = append(d.polylines, p)
		}
		return nil
	}

	for {
		p, err := pr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dxf: %w", err)
		}

		if p.code != 0 {
			if current != nil {
				current.pairs = append(current.pairs, p)
			}
			continue
		}

		if err := flush(); err != nil {
			return nil, fmt.Errorf("dxf: %w", err)
		}
		switch p.value {
		case "SECTION":
			name, err := pr.next()
			if err != nil {
				return nil, fmt.Errorf("dxf: section at line %d: %w", p.line, err)
			}
			inEntities = name.code == 2 && name.value == "ENTITIES"
		case "ENDSEC":
			inEntities = false
		case "EOF":
			return d, nil
		default:
			if inEntities {
				current = &entity{kind: p.value}
			}
		}
	}
	if err := flush(); err != nil {
		return nil, fmt.Errorf("dxf: %w", err)
	}
	return d, nil
}

// ReadFile parses the DXF file at path.
func ReadFile(path string) (*Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func parseFloat(p pair) (float64, error) {
	f, err := strconv.ParseFloat(p.value, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: group %d: invalid number %q", p.line, p.code, p.value)
	}
	return f, nil
}

func decodeCircle(pairs []pair) (Circle, error) {
	c := Circle{Extrusion: DefaultExtrusion}
	for _, p := range pairs {
		if p.code == 8 {
			c.Layer = p.value
			continue
		}
		var dst *float64
		switch p.code {
		case 10:
			dst = &c.Center.X
		case 20:
			dst = &c.Center.Y
		case 30:
			dst = &c.Center.Z
		case 40:
			dst = &c.Radius
		case 210:
			dst = &c.Extrusion.X
		case 220:
			dst = &c.Extrusion.Y
		case 230:
			dst = &c.Extrusion.Z
		default:
			continue
		}
		f, err := parseFloat(p)
		if err != nil {
			return Circle{}, err
		}
		*dst = f
	}
	return c, nil
}

func decodePolyline(pairs []pair) (Polyline, error) {
	var pl Polyline
	for _, p := range pairs {
		switch p.code {
		case 8:
			pl.Layer = p.value
		case 70:
			flags, err := strconv.Atoi(p.value)
			if err != nil {
				return Polyline{}, fmt.Errorf("line %d: invalid polyline flags %q", p.line, p.value)
			}
			pl.Closed = flags&1 == 1
		case 10:
			x, err := parseFloat(p)
			if err != nil {
				return Polyline{}, err
			}
			pl.Vertices = append(pl.Vertices, geometry.Point{X: x})
		case 20:
			y, err := parseFloat(p)
			if err != nil {
				return Polyline{}, err
			}
			if len(pl.Vertices) == 0 {
				return Polyline{}, fmt.Errorf("line %d: vertex Y before X", p.line)
			}
			pl.Vertices[len(pl.Vertices)-1].Y = y
		}
	}
	return pl, nil
}
