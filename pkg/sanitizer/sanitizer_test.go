package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Goa Beach Resort  ",
			want:  "Goa Beach Resort",
		},
		{
			name:  "multiple spaces between words",
			input: "Goa    Beach Resort",
			want:  "Goa Beach Resort",
		},
		{
			name:  "tabs and newlines",
			input: "Goa\t\nBeach Resort",
			want:  "Goa Beach Resort",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
		{
			name:  "devanagari characters",
			input: " वाराणसी यात्रा ",
			want:  "वाराणसी यात्रा",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase",
			input: "Priya.Sharma@Example.COM",
			want:  "priya.sharma@example.com",
		},
		{
			name:  "trim",
			input: "  user@example.com ",
			want:  "user@example.com",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeEmail(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPipelineApply(t *testing.T) {
	p := Pipeline{
		TrimAndNormalize,
		func(s string) string { return s + "!" },
	}
	if got := p.Apply("  hello   world "); got != "hello world!" {
		t.Errorf("Pipeline.Apply = %q, want %q", got, "hello world!")
	}

	var empty Pipeline
	if got := empty.Apply("unchanged"); got != "unchanged" {
		t.Errorf("empty Pipeline.Apply = %q, want %q", got, "unchanged")
	}
}
