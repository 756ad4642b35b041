// Package observability renders workflow state for the terminal.
package observability

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/jonathan/talentfit/internal/assessment"
	"github.com/jonathan/talentfit/internal/interview"
	"github.com/jonathan/talentfit/internal/progress"
	"github.com/jonathan/talentfit/internal/remote"
	"github.com/jonathan/talentfit/internal/types"
	"github.com/jonathan/talentfit/internal/workflow"
)

const (
	// boxWidth is the width of rendered boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#5B8DEF"))

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#444444")).
	Padding(0, 1).
	Width(boxWidth)

// Printer writes formatted output
type Printer struct {
	out    io.Writer
	warn   *color.Color
	good   *color.Color
	bad    *color.Color
	subtle *color.Color
}

// NewPrinter creates a Printer. Colors are only used when out is a terminal file.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:    out,
		warn:   color.New(color.FgYellow, color.Bold),
		good:   color.New(color.FgGreen),
		bad:    color.New(color.FgRed, color.Bold),
		subtle: color.New(color.FgHiBlack),
	}
	if f, ok := out.(*os.File); !ok || (f != os.Stdout && f != os.Stderr) || color.NoColor {
		for _, c := range []*color.Color{p.warn, p.good, p.bad, p.subtle} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the destination the printer writes to.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to the terminal; errors are not recoverable
func (p *Printer) printBox(title, content string) {
	body := titleStyle.Render(title)
	if content != "" {
		body += "\n\n" + content
	}
	fmt.Fprintln(p.out, boxStyle.Render(body))
}

// Notice prints a redirect notice.
//
//nolint:errcheck
func (p *Printer) Notice(n *workflow.Notice) {
	if n == nil {
		return
	}
	p.warn.Fprintf(p.out, "%s: ", n.Title)
	fmt.Fprintf(p.out, "%s (continue with %s)\n", n.Message, n.Route)
}

// Success prints a confirmation line.
//
//nolint:errcheck
func (p *Printer) Success(format string, args ...any) {
	p.good.Fprint(p.out, "✓ ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Failure prints an error line.
//
//nolint:errcheck
func (p *Printer) Failure(title string, err error) {
	p.bad.Fprintf(p.out, "✗ %s", title)
	if err != nil {
		fmt.Fprintf(p.out, ": %v", err)
	}
	fmt.Fprintln(p.out)
}

// Info prints a dimmed line.
//
//nolint:errcheck
func (p *Printer) Info(format string, args ...any) {
	p.subtle.Fprintf(p.out, format+"\n", args...)
}

// PrintDashboard outputs progress, the current phase and match statistics.
func (p *Printer) PrintDashboard(rec *types.SessionRecord) {
	if rec == nil {
		p.printBox("DASHBOARD", "No active session. Start with: talentfit resume upload <file>")
		return
	}
	state := rec.State
	res := progress.Compute(state)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Session:   %s\n", orDash(rec.ShortThread()))
	fmt.Fprintf(&sb, "Progress:  %s %d%%\n", bar(res.Percent, 30), res.Percent)
	fmt.Fprintf(&sb, "Phase:     %s\n", res.Phase)
	if state.MatchScore.Positive() {
		fmt.Fprintf(&sb, "Match:     %d%% (%s)\n", progress.Percent(state.MatchScore), progress.MatchLevel(state.MatchScore))
	}
	fmt.Fprintf(&sb, "Skills:    %d identified, %d matched, %d missing\n",
		len(state.CandidateSkills), len(state.MatchedSkills), len(state.MissingSkills))
	sb.WriteString("\n")
	for _, step := range progress.Steps(state) {
		mark := "○"
		if step.Done {
			mark = "●"
		}
		fmt.Fprintf(&sb, "  %s %-32s %3d%%\n", mark, step.Label, step.Weight)
	}

	p.printBox("DASHBOARD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs what was extracted from an uploaded resume.
func (p *Printer) PrintResume(state types.CandidateState) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File:       %s\n", orDash(types.StringValue(state.ResumeFile)))
	fmt.Fprintf(&sb, "Experience: %s\n", orDash(types.StringValue(state.CandidateExperience)))
	writeList(&sb, "Skills", state.CandidateSkills)
	writeList(&sb, "Education", state.Education)
	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDescription outputs the processed job description.
func (p *Printer) PrintJobDescription(state types.CandidateState) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Experience: %s\n", orDash(types.StringValue(state.JDExperience)))
	writeList(&sb, "Required skills", state.JDSkills)
	p.printBox("JOB DESCRIPTION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatch outputs the match scores and skill overlap.
func (p *Printer) PrintMatch(state types.CandidateState) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:    %d%% %s\n", progress.Percent(state.MatchScore), progress.MatchLabel(state.MatchScore))
	for _, s := range []struct {
		name  string
		score types.Score
	}{
		{"TF-IDF", state.TFIDFScore},
		{"Bag of words", state.BOWScore},
		{"Embedding", state.EmbeddingScore},
	} {
		if s.score.Valid() {
			fmt.Fprintf(&sb, "%-11s %d%%\n", s.name+":", progress.Percent(s.score))
		}
	}
	sb.WriteString("\n")
	writeList(&sb, "Matched skills", state.MatchedSkills)
	writeList(&sb, "Missing skills", state.MissingSkills)
	p.printBox("CANDIDATE MATCHING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobMatch outputs the best catalog match for the candidate.
func (p *Printer) PrintJobMatch(m remote.JobMatchSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Best match: %s\n", orDash(m.BestMatchTitle))
	fmt.Fprintf(&sb, "Company:    %s\n", orDash(m.Company))
	fmt.Fprintf(&sb, "Posted:     %s\n", orDash(m.Date))
	fmt.Fprintf(&sb, "Score:      %d%% %s\n", progress.Percent(m.MatchScore), progress.MatchLabel(m.MatchScore))
	if text := strings.TrimSpace(m.JDText); text != "" {
		fmt.Fprintf(&sb, "\n%s\n", truncate(text, 400))
	}
	p.printBox("JOB MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGap outputs missing skills with their learning resources.
func (p *Printer) PrintSkillGap(state types.CandidateState) {
	var sb strings.Builder
	writeList(&sb, "Priority skills", state.PrioritySkills)

	skills := make([]string, 0, len(state.SkillResources))
	for skill := range state.SkillResources {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	for _, skill := range skills {
		fmt.Fprintf(&sb, "\n%s\n", skill)
		for _, r := range state.SkillResources[skill] {
			kind := ""
			if r.Type != "" {
				kind = " [" + r.Type + "]"
			}
			fmt.Fprintf(&sb, "  • %s%s\n", r.Name, kind)
			if r.URL != "" {
				fmt.Fprintf(&sb, "    %s\n", r.URL)
			}
		}
	}
	if len(skills) == 0 {
		sb.WriteString("\nNo learning resources yet.\n")
	}
	p.printBox("SKILL GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssessment outputs the generated questions. Answers are shown when reveal is set.
func (p *Printer) PrintAssessment(state types.CandidateState, reveal bool) {
	var sb strings.Builder
	if len(state.BasedOnSkills) > 0 {
		fmt.Fprintf(&sb, "Based on: %s\n\n", strings.Join(state.BasedOnSkills, ", "))
	}
	for i, q := range state.MCQs {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(&sb, "   %s) %s\n", assessment.Letter(j), opt)
		}
		if reveal {
			fmt.Fprintf(&sb, "   Answer: %s\n", q.Answer)
			if q.Explanation != "" {
				fmt.Fprintf(&sb, "   %s\n", q.Explanation)
			}
		}
		sb.WriteString("\n")
	}
	if state.MCQScore != nil {
		fmt.Fprintf(&sb, "Last score: %d%%\n", int(state.MCQScore.Float()))
	}
	p.printBox(fmt.Sprintf("ASSESSMENT (%d questions)", len(state.MCQs)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssessmentResult outputs a graded attempt.
func (p *Printer) PrintAssessmentResult(mcqs []types.MCQQuestion, res assessment.Result) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score: %d%% (%d/%d correct)\n", res.Percent, res.Correct, res.Total)
	for _, i := range res.Wrong {
		if i < len(mcqs) {
			fmt.Fprintf(&sb, "\n%d. %s\n   Correct answer: %s\n", i+1, mcqs[i].Question, mcqs[i].Answer)
		}
	}
	p.printBox("ASSESSMENT RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInterview outputs the interview questions with the saved answers.
func (p *Printer) PrintInterview(sheet *interview.AnswerSheet) {
	var sb strings.Builder
	for i := 0; i < sheet.Len(); i++ {
		q, _ := sheet.Question(i)
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, q.Type, q.Question)
		if a := strings.TrimSpace(sheet.Answer(i)); a != "" {
			fmt.Fprintf(&sb, "   > %s\n", truncate(a, 200))
		} else {
			sb.WriteString("   (no answer yet)\n")
		}
	}
	fmt.Fprintf(&sb, "\nAnswered %d/%d", sheet.Answered(), sheet.Len())
	p.printBox("INTERVIEW QUESTIONS", sb.String())
}

// PrintReview outputs the evaluated interview, one block per question.
func (p *Printer) PrintReview(review interview.Review) {
	var sb strings.Builder
	if review.Score != nil {
		fmt.Fprintf(&sb, "Interview score: %d%%\n", progress.Percent(*review.Score))
	}
	if review.Summary != "" {
		fmt.Fprintf(&sb, "%s\n", review.Summary)
	}
	for _, item := range review.Items {
		fmt.Fprintf(&sb, "\nQuestion %d [%s]\n%s\n", item.Number, item.Type, item.Question)
		if item.Answered {
			fmt.Fprintf(&sb, "Your answer: %s\n", item.Answer)
		} else {
			sb.WriteString("Your answer: No answer provided\n")
		}
		fmt.Fprintf(&sb, "Feedback: %s\n", item.Feedback)
	}
	fmt.Fprintf(&sb, "\nQuestions answered: %d/%d", review.Answered, review.Total)
	p.printBox("INTERVIEW FEEDBACK", sb.String())
}

// PrintJobDescriptions outputs the admin job description catalog.
func (p *Printer) PrintJobDescriptions(jds []types.JobDescription) {
	if len(jds) == 0 {
		p.printBox("JOB DESCRIPTIONS", "No job descriptions yet.")
		return
	}
	var sb strings.Builder
	for _, jd := range jds {
		date := "-"
		if when := jd.When(); !when.IsZero() {
			date = when.Format("2006-01-02")
		}
		fmt.Fprintf(&sb, "#%-5d %-30s %-20s %s\n", jd.ID, truncate(jd.Title, 30), truncate(jd.Company, 20), date)
	}
	p.printBox(fmt.Sprintf("JOB DESCRIPTIONS (%d)", len(jds)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDescriptionDetail outputs one catalog entry in full.
func (p *Printer) PrintJobDescriptionDetail(jd types.JobDescription) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s\n", orDash(jd.Company))
	if when := jd.When(); !when.IsZero() {
		fmt.Fprintf(&sb, "Date:    %s\n", when.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, "\n%s", jd.Body())
	p.printBox(fmt.Sprintf("#%d %s", jd.ID, jd.Title), sb.String())
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s: none\n", title)
		return
	}
	fmt.Fprintf(sb, "%s (%d):\n", title, len(items))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

func bar(percent, width int) string {
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
