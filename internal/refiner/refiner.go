// Package refiner implements the best-effort grammar/context polish applied
// to a translation before it is persisted. Refinement is cosmetic: any
// failure or empty response makes the caller fall back to the unrefined text.
package refiner

import (
	"context"
	"fmt"
)

// Refiner polishes a translated text for grammar and context. An empty
// result means the backend had nothing to offer; callers keep the input.
type Refiner interface {
	Refine(ctx context.Context, language, text string) (string, error)
}

// buildInstruction renders the fixed refinement prompt for a target language.
// The template is deliberately constant; only the language and text vary.
func buildInstruction(language, text string) string {
	return fmt.Sprintf(`You are a %[1]s copy editor.

Correct the grammar, word choice, and phrasing of the text below so it reads
as natural %[1]s. Preserve the meaning, names, and technical terms exactly.
If the text is already correct, return it unchanged.

Output ONLY the corrected text in %[1]s, with no explanation.

Text:
%[2]s`, language, text)
}
