package gateway

import (
	"strings"
	"testing"
)

func TestClassifyQuestion(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{name: "campus keyword", message: "When is tuition due this semester?", want: QuestionTypeOSU},
		{name: "campus name", message: "Tell me about Ohio State", want: QuestionTypeOSU},
		{name: "buckeyelink", message: "how do I log into buckeyelink", want: QuestionTypeOSU},
		{name: "technical keyword", message: "How do I debug a goroutine leak?", want: QuestionTypeTechnical},
		{name: "docker", message: "write a Dockerfile for me", want: QuestionTypeTechnical},
		{name: "case insensitive", message: "PYTHON list comprehension", want: QuestionTypeTechnical},
		{name: "campus wins over technical", message: "which CS major classes teach python", want: QuestionTypeOSU},
		{name: "general", message: "what is the weather like", want: QuestionTypeGeneral},
		{name: "empty", message: "", want: QuestionTypeGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyQuestion(tt.message); got != tt.want {
				t.Errorf("ClassifyQuestion(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestSystemPromptFor(t *testing.T) {
	tests := []struct {
		questionType string
		wantContains string
	}{
		{questionType: QuestionTypeOSU, wantContains: "Ohio State"},
		{questionType: QuestionTypeTechnical, wantContains: "technical expert"},
		{questionType: QuestionTypeGeneral, wantContains: "Helpful assistant"},
		{questionType: "unknown", wantContains: "Helpful assistant"},
	}

	for _, tt := range tests {
		t.Run(tt.questionType, func(t *testing.T) {
			got := SystemPromptFor(tt.questionType)
			if got == "" {
				t.Fatal("SystemPromptFor returned empty prompt")
			}
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("SystemPromptFor(%q) = %q, want substring %q", tt.questionType, got, tt.wantContains)
			}
		})
	}
}
