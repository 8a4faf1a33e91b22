package providers

import "testing"

func TestRenderPrompt(t *testing.T) {
	tests := []struct {
		name    string
		message string
		context map[string]string
		want    string
	}{
		{
			name:    "no context",
			message: "hello",
			context: nil,
			want:    "hello",
		},
		{
			name:    "empty context",
			message: "hello",
			context: map[string]string{},
			want:    "hello",
		},
		{
			name:    "single pair",
			message: "what are my options",
			context: map[string]string{"major": "cs"},
			want:    "Context:\nmajor: cs\n\nwhat are my options",
		},
		{
			name:    "keys sorted",
			message: "hi",
			context: map[string]string{"b": "2", "a": "1", "c": "3"},
			want:    "Context:\na: 1\nb: 2\nc: 3\n\nhi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderPrompt(tt.message, tt.context)
			if got != tt.want {
				t.Errorf("RenderPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPromptDeterministic(t *testing.T) {
	context := map[string]string{"x": "1", "y": "2", "z": "3", "w": "4"}

	first := RenderPrompt("msg", context)
	for i := 0; i < 50; i++ {
		if got := RenderPrompt("msg", context); got != first {
			t.Fatalf("rendering not deterministic: iteration %d got %q, want %q", i, got, first)
		}
	}
}
