// Package console implements the interactive boundary: profile prompts on
// the way in, roadmap rendering on the way out.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	contractx "certpilot/agent/contract"
	roadmapx "certpilot/agent/roadmap"
)

// Prompter collects a user profile from an interactive stream.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// CollectProfile walks through the profile questions in order. Empty answers
// are allowed everywhere; weekly hours fall back to the default on anything
// unparsable.
func (p *Prompter) CollectProfile() roadmapx.Profile {
	fmt.Fprintln(p.out, "Tell us about yourself so we can build your certification roadmap.")
	fmt.Fprintln(p.out)

	profile := roadmapx.Profile{
		Role:       p.ask("Current role (e.g. Data Analyst): "),
		Goals:      p.ask("Career goals (e.g. AI Developer): "),
		Background: p.ask("Background and prior experience: "),
		Experience: p.ask("Experience level (Beginner/Intermediate/Advanced): "),
	}

	if raw := p.ask("Interests, comma separated (e.g. AI, Data): "); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				profile.Interests = append(profile.Interests, v)
			}
		}
	}

	if raw := p.ask("Study hours per week [10]: "); raw != "" {
		if hours, err := strconv.Atoi(strings.Fields(raw)[0]); err == nil && hours > 0 {
			profile.WeeklyHours = hours
		}
	}

	return profile
}

func (p *Prompter) ask(question string) string {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// RenderContext writes the accumulated roadmap. Stages that never ran are
// skipped; a partial roadmap renders whatever is present.
func RenderContext(w io.Writer, rc *roadmapx.Context) {
	if rc == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Your Certification Roadmap ===")

	if len(rc.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recommendations:")
		for i, rec := range rc.Recommendations {
			marker := "  "
			if rc.SelectedID() == rec.CertificationID {
				marker = "* "
			}
			fmt.Fprintf(w, "%s%d. %s — %s (%s, %s)\n", marker, i+1,
				strings.ToUpper(rec.CertificationID), rec.Title, rec.Difficulty, rec.EstimatedStudyTime)
			if rec.Reasoning != "" {
				fmt.Fprintf(w, "     %s\n", rec.Reasoning)
			}
		}
	}

	if ga := rc.Prerequisites; ga != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Prerequisite analysis:")
		fmt.Fprintf(w, "  Meets prerequisites: %v (confidence: %s)\n", ga.MeetsPrerequisites, ga.Confidence)
		for _, gap := range ga.KnowledgeGaps {
			fmt.Fprintf(w, "  Gap: %s\n", gap)
		}
		for _, step := range ga.Preparation {
			fmt.Fprintf(w, "  Prepare: %s (%s)\n", step.Topic, step.EstimatedTime)
		}
		if ga.Timeline != "" {
			fmt.Fprintf(w, "  Timeline to close gaps: %s\n", ga.Timeline)
		}
	}

	if plan := rc.StudyPlan; plan != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Study plan for %s (%s):\n", plan.Title, plan.TotalStudyTime)
		for _, week := range plan.Weeks {
			fmt.Fprintf(w, "  Week %d (%.1fh): %s\n", week.Week, week.Hours, week.Focus)
		}
		if len(plan.Resources) > 0 {
			fmt.Fprintf(w, "  Resources: %s\n", strings.Join(plan.Resources, ", "))
		}
	}

	if sched := rc.Schedule; sched != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Weekly schedule (%d hours/week):\n", sched.HoursPerWeek)
		for _, day := range sched.Days {
			fmt.Fprintf(w, "  %-9s %.2fh  %s\n", day.Day, day.Hours, day.Focus)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Milestones:")
		for _, m := range sched.Milestones {
			fmt.Fprintf(w, "  Week %d: %s — %s\n", m.Week, m.Title, m.Description)
		}
		if sched.ExamTarget != "" {
			fmt.Fprintf(w, "  Target exam: %s\n", sched.ExamTarget)
		}
	}
}

// ProgressNotifier prints live stage transitions while the pipeline runs.
type ProgressNotifier struct {
	Out io.Writer
}

func (n ProgressNotifier) StageStarted(stage contractx.Stage) {
	fmt.Fprintf(n.Out, "[%s] working...\n", stage)
}

func (n ProgressNotifier) StageCompleted(stage contractx.Stage, res contractx.Result) {
	status := "done"
	if !res.Success {
		status = "failed"
	}
	if res.Fallback {
		status += " (best effort)"
	}
	fmt.Fprintf(n.Out, "[%s] %s: %s\n", stage, status, res.Message)
}
