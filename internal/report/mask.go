package report

import "strings"

var secretMarkers = []string{"SECRET", "PASSWORD", "TOKEN", "KEY"}

// IsSecretName reports whether a variable name looks like it holds a credential
func IsSecretName(name string) bool {
	upper := strings.ToUpper(name)
	for _, m := range secretMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// Mask hides a secret value, keeping three runes at each end when the
// value is long enough for that to reveal little.
func Mask(val string) string {
	runes := []rune(val)
	if len(runes) > 8 {
		return string(runes[:3]) + "***" + string(runes[len(runes)-3:])
	}
	return "***"
}
