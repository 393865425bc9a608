// Package languages holds the fixed catalog of languages the pipeline can
// translate into, and the target-candidate rule that keeps the user from
// requesting a no-op translation into their own source language.
package languages

import "strings"

// Language pairs an ISO-like code with a display name.
type Language struct {
	Code string
	Name string
}

// catalog lists every supported target language. Order is presentation order.
var catalog = []Language{
	{"en", "English"},
	{"es", "Spanish"},
	{"fr", "French"},
	{"de", "German"},
	{"it", "Italian"},
	{"pt", "Portuguese"},
	{"nl", "Dutch"},
	{"pl", "Polish"},
	{"uk", "Ukrainian"},
	{"ru", "Russian"},
	{"tr", "Turkish"},
	{"ar", "Arabic"},
	{"hi", "Hindi"},
	{"zh-CN", "Chinese (Simplified)"},
	{"ja", "Japanese"},
	{"ko", "Korean"},
	{"vi", "Vietnamese"},
	{"id", "Indonesian"},
	{"th", "Thai"},
	{"sv", "Swedish"},
	{"cs", "Czech"},
	{"el", "Greek"},
	{"he", "Hebrew"},
}

// All returns the full catalog.
func All() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// IsSupported reports whether code names a catalog language.
func IsSupported(code string) bool {
	for _, l := range catalog {
		if strings.EqualFold(l.Code, code) {
			return true
		}
	}
	return false
}

// Candidates returns the target languages available for a given source
// language. The source itself is always excluded so a run can never produce
// a translation into the language it started from.
func Candidates(source string) []Language {
	out := make([]Language, 0, len(catalog))
	for _, l := range catalog {
		if strings.EqualFold(l.Code, source) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Normalize lowercases a bare code but preserves region-qualified casing
// ("zh-cn" → "zh-CN") so codes compare consistently against the catalog.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexByte(code, '-'); i > 0 {
		return strings.ToLower(code[:i]) + "-" + strings.ToUpper(code[i+1:])
	}
	return strings.ToLower(code)
}
