package postprocess

import "testing"

func TestRemoveThinkingBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no thinking blocks",
			input:    "Hello, this is a normal translation.",
			expected: "Hello, this is a normal translation.",
		},
		{
			name:     "simple thinking block",
			input:    "Some text<thinking>Let me translate this</thinking>More text",
			expected: "Some textMore text",
		},
		{
			name:     "think block",
			input:    "Start<think>Analyzing the grammar</think>End",
			expected: "StartEnd",
		},
		{
			name:     "reasoning block",
			input:    "Begin<reasoning>Checking context</reasoning>Finish",
			expected: "BeginFinish",
		},
		{
			name:     "multiple thinking blocks",
			input:    "<thinking>First</thinking>middle<thinking>Second</thinking>",
			expected: "middle",
		},
		{
			name:     "truncated thinking block",
			input:    "<thinking>Translation in progress",
			expected: "",
		},
		{
			name:     "truncated thinking in middle",
			input:    "Before<thinking>Incomplete",
			expected: "Before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeThinkingBlocks(tt.input)
			if result != tt.expected {
				t.Errorf("removeThinkingBlocks(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveInstructionEchoes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no echo",
			input:    "Just a normal translation.",
			expected: "Just a normal translation.",
		},
		{
			name:     "here's translation echo",
			input:    "Here's the translation: Actual translation text",
			expected: "Actual translation text",
		},
		{
			name:     "here is corrected text echo",
			input:    "Here is the corrected text: Done",
			expected: "Done",
		},
		{
			name:     "improved version echo",
			input:    "Here is the improved version: Better text",
			expected: "Better text",
		},
		{
			name:     "bare translation label",
			input:    "Translation: le chat",
			expected: "le chat",
		},
		{
			name:     "sure here is echo",
			input:    "Sure, here is the translation: Bonjour",
			expected: "Bonjour",
		},
		{
			name:     "colon required",
			input:    "The translation process is complex",
			expected: "The translation process is complex",
		},
		{
			name:     "echo not at start is kept",
			input:    "Note. Here's the translation: x",
			expected: "Note. Here's the translation: x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeInstructionEchoes(tt.input)
			if result != tt.expected {
				t.Errorf("removeInstructionEchoes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRemoveQuoteWrapping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no quotes",
			input:    "Plain text",
			expected: "Plain text",
		},
		{
			name:     "double quotes",
			input:    `"Quoted text"`,
			expected: "Quoted text",
		},
		{
			name:     "single quotes",
			input:    "'Quoted text'",
			expected: "Quoted text",
		},
		{
			name:     "guillemets",
			input:    "«Texte cité»",
			expected: "Texte cité",
		},
		{
			name:     "curly double quotes",
			input:    "“Curly quoted”",
			expected: "Curly quoted",
		},
		{
			name:     "mismatched quotes kept",
			input:    `"Unbalanced'`,
			expected: `"Unbalanced'`,
		},
		{
			name:     "interior quotes kept",
			input:    `She said "hi" to me`,
			expected: `She said "hi" to me`,
		},
		{
			name:     "single character",
			input:    `"`,
			expected: `"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := removeQuoteWrapping(tt.input)
			if result != tt.expected {
				t.Errorf("removeQuoteWrapping(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	input := "<think>grammar fix needed</think>\nHere is the corrected text: \"Hello world\""
	expected := "Hello world"
	if got := Clean(input); got != expected {
		t.Errorf("Clean(%q) = %q, want %q", input, got, expected)
	}
}

func TestClean_PlainTextUntouched(t *testing.T) {
	input := "Bonjour tout le monde."
	if got := Clean(input); got != input {
		t.Errorf("Clean(%q) = %q, want unchanged", input, got)
	}
}
