package inspect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/rsinspect/internal/debug/value"
)

// formatScalar renders a scalar or pointer natively. Aggregates render as
// the empty string.
func formatScalar(v value.Value) string {
	t := v.Type()
	if t == nil || t.Kind != value.KindOther || t.Elem != nil {
		return ""
	}

	n, err := v.Unsigned()
	if err != nil {
		return "<error: " + err.Error() + ">"
	}

	if t.IsPointer() {
		return fmt.Sprintf("%#x", n)
	}

	switch name := t.Name; {
	case name == "bool":
		return strconv.FormatBool(n != 0)
	case name == "char" && t.Size == 4:
		return strconv.QuoteRune(rune(n))
	case name == "f32" && t.Size == 4:
		return strconv.FormatFloat(float64(math.Float32frombits(uint32(n))), 'g', -1, 32)
	case name == "f64" && t.Size == 8:
		return strconv.FormatFloat(math.Float64frombits(n), 'g', -1, 64)
	case isSigned(name):
		return strconv.FormatInt(signExtend(n, t.Size), 10)
	default:
		return strconv.FormatUint(n, 10)
	}
}

func isSigned(name string) bool {
	if name == "isize" {
		return true
	}
	rest, ok := strings.CutPrefix(name, "i")
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

func signExtend(n uint64, size uint64) int64 {
	if size == 0 || size >= 8 {
		return int64(n)
	}
	shift := 64 - 8*size
	return int64(n<<shift) >> shift
}
