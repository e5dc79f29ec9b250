package assistant

import (
	"fmt"
	"strconv"
	"strings"
)

// stringArg reads a string argument. Models sometimes send numbers for numeric-looking
// strings, which are formatted back.
func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// boolArg reads a boolean argument, accepting "true"/"false" strings.
func boolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}
