package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/goal.txt
	goalRaw string

	//go:embed template/prerequisite.txt
	prerequisiteRaw string

	//go:embed template/curriculum.txt
	curriculumRaw string

	//go:embed template/schedule.txt
	scheduleRaw string
)

// PromptSet holds the system prompt for each pipeline stage.
type PromptSet struct {
	Goal         string
	Prerequisite string
	Curriculum   string
	Schedule     string
}

// LoadPromptSet returns the embedded prompts, trimmed. Safe to call
// concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Goal:         strings.TrimSpace(goalRaw),
		Prerequisite: strings.TrimSpace(prerequisiteRaw),
		Curriculum:   strings.TrimSpace(curriculumRaw),
		Schedule:     strings.TrimSpace(scheduleRaw),
	}
}
