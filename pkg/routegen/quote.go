package routegen

import (
	"encoding/json"
	"strings"
)

// Quote returns s as a double-quoted JavaScript string literal.
//
// Quotes, backslashes and control characters are escaped, as are U+2028 and
// U+2029 (line terminators inside JS strings) and <, > and & so the module
// can be inlined in a <script> element. Invalid UTF-8 bytes are replaced
// with U+FFFD; routetree.Build rejects such paths before they get here.
func Quote(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(true)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}
