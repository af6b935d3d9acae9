package cfg

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"edgedrill/pkg/fault"
)

// DefaultSafeZConstant is the macro constant holding the tool change height.
const DefaultSafeZConstant = "TOOL_CHANGE_HEIGHT"

// ReadMacroConstant returns the numeric value of a VBScript style
// "Const NAME = value" declaration in the macro file at path. Trailing '
// comments are ignored. The first declaration wins.
func ReadMacroConstant(path, name string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fault.Configuration(stageConfig, "machine macro not readable").
			With("path", path).
			Wrap(err)
	}
	defer f.Close()

	re := regexp.MustCompile(`(?i)^\s*const\s+` + regexp.QuoteMeta(name) + `\s*=\s*(.*)$`)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := re.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		raw := m[1]
		if i := strings.IndexByte(raw, '\''); i >= 0 {
			raw = raw[:i]
		}
		raw = strings.TrimSpace(raw)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fault.Configuration(stageConfig, "unparsable value %q for %s", raw, name).
				With("path", path)
		}
		return v, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fault.Configuration(stageConfig, "machine macro not readable").
			With("path", path).
			Wrap(err)
	}
	return 0, fault.Configuration(stageConfig, "constant %s not found in machine macro", name).
		With("path", path)
}
