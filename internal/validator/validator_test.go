package validator

import (
	"testing"
)

func TestValidator_IsValid(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		text       string
		targetLang string
		wantValid  bool
	}{
		{
			name:       "empty target passes",
			text:       "anything at all",
			targetLang: "",
			wantValid:  true,
		},
		{
			name:       "empty text is invalid",
			text:       "   ",
			targetLang: "en",
			wantValid:  false,
		},
		{
			name:       "short text passes unvalidated",
			text:       "Bonjour",
			targetLang: "en",
			wantValid:  true,
		},
		{
			name:       "matching english",
			text:       "This is a perfectly normal English sentence for testing.",
			targetLang: "en",
			wantValid:  true,
		},
		{
			name:       "matching french",
			text:       "Ceci est une phrase française tout à fait normale pour les tests.",
			targetLang: "fr",
			wantValid:  true,
		},
		{
			name:       "french text against english target",
			text:       "Ceci est une phrase française tout à fait normale pour les tests.",
			targetLang: "en",
			wantValid:  false,
		},
		{
			name:       "region-qualified target matches bare detection",
			text:       "这是一个足够长的中文句子，用来进行语言检测测试。",
			targetLang: "zh-CN",
			wantValid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := v.IsValid(tt.text, tt.targetLang)
			if valid != tt.wantValid {
				t.Errorf("IsValid(%q, %q) = %v (err %v), want %v",
					tt.text, tt.targetLang, valid, err, tt.wantValid)
			}
			if !valid && err == nil {
				t.Error("invalid result must carry an explanatory error")
			}
		})
	}
}
