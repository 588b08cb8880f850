package symbol

import "strings"

func foldEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}
