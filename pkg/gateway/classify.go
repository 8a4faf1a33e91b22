package gateway

import "strings"

// Question types returned by ClassifyQuestion.
const (
	QuestionTypeOSU       = "osu"
	QuestionTypeTechnical = "technical"
	QuestionTypeGeneral   = "general"
)

// osuKeywords mark campus-related questions.
var osuKeywords = []string{
	"osu", "buckeye", "class", "registration", "tuition", "fee", "deadline",
	"semester", "drop", "add", "refund", "payment", "buckeyelink",
	"columbus campus", "regional campus", "major", "degree", "minor",
	"advisor", "advising", "graduate", "undergraduate", "college", "gpa",
	"transcript", "ohio state",
}

// technicalKeywords mark programming and infrastructure questions.
var technicalKeywords = []string{
	"python", "javascript", "java", "docker", "kubernetes", "k8s", "git",
	"api", "database", "react", "node", "sql", "code", "program",
	"function", "algorithm", "debug", "error", "exception", "container",
	"devops", "cloud", "aws", "terraform", "yaml", "json", "rest", "http",
	"css", "html",
}

// ClassifyQuestion buckets a message by keyword match. OSU keywords win
// over technical ones; anything else is general.
func ClassifyQuestion(message string) string {
	lower := strings.ToLower(message)

	for _, keyword := range osuKeywords {
		if strings.Contains(lower, keyword) {
			return QuestionTypeOSU
		}
	}
	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			return QuestionTypeTechnical
		}
	}
	return QuestionTypeGeneral
}

// osuSystemPrompt steers the model toward campus-specific answers.
const osuSystemPrompt = `You are an Ohio State University assistant. Answer OSU questions specifically.

Key resources:
- BuckeyeLink: buckeyelink.osu.edu (registration, grades, schedule)
- Advising: advising.osu.edu
- Financial Aid: sfa.osu.edu
- Majors: https://undergrad.osu.edu/majors-and-academics/majors

To declare or change a major, meet with the academic advisor in your college.
Always provide OSU-specific answers with links when possible.`

// technicalSystemPrompt asks for well-formatted technical answers.
const technicalSystemPrompt = `You are a technical expert. Format responses with clear markdown code
blocks (language specified), a brief explanation first, then the code, then
what it does. Show example outputs when relevant.`

// generalSystemPrompt is the minimal default.
const generalSystemPrompt = "Helpful assistant. Answer concisely."

// SystemPromptFor returns the system prompt for a question type.
func SystemPromptFor(questionType string) string {
	switch questionType {
	case QuestionTypeOSU:
		return osuSystemPrompt
	case QuestionTypeTechnical:
		return technicalSystemPrompt
	default:
		return generalSystemPrompt
	}
}
