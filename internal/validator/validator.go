// Package validator checks that a translation result appears to be written in
// the expected target language. Failures are advisory; the pipeline only
// warns.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/voxlate/internal/detector"
)

// minValidationLength is the minimum rune count required to attempt language
// detection. Shorter texts produce unreliable results and pass unvalidated.
const minValidationLength = 20

// Validator checks translation output against the requested target language.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the shared language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// NewWithDetector reuses an already-built detector.
func NewWithDetector(det *detector.Detector) *Validator {
	return &Validator{det: det}
}

// IsValid returns true when translatedText appears to be written in
// targetLang. Empty text is invalid; short or undetectable text passes. When
// the detected language differs the returned error names both codes.
func (v *Validator) IsValid(translatedText, targetLang string) (bool, error) {
	if targetLang == "" {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	if len([]rune(text)) < minValidationLength {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	// Compare bare codes: a "zh-CN" target matches a detected "zh".
	want := targetLang
	if i := strings.IndexByte(want, '-'); i > 0 {
		want = want[:i]
	}
	if !strings.EqualFold(detected, want) {
		return false, fmt.Errorf("expected %s but detected %s", targetLang, detected)
	}

	return true, nil
}
