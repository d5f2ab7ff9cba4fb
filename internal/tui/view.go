package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.route {
	case home.RouteBuilder:
		content = m.viewBuilder()
	case home.RouteSession:
		content = m.viewRoutine()
	default:
		content = m.viewHome()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewToasts(),
		m.help.View(m.keys),
	))
}

func (m Model) viewHome() string {
	if m.loading {
		return fmt.Sprintf("%s Loading your dashboard...", m.spinner.View())
	}

	sections := []string{m.viewHeader(), m.viewSuggestion(), m.viewStats()}
	if m.view.NextChallenge != nil {
		sections = append(sections, m.viewChallenge())
	}
	sections = append(sections, m.viewRecent())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewHeader() string {
	name := m.view.DisplayName
	if name == "" {
		name = "Athlete"
	}
	return titleStyle.Render(fmt.Sprintf("%s, %s", m.view.Greeting, name)) + "\n"
}

func (m Model) viewSuggestion() string {
	s := m.view.Suggestion
	if s == nil {
		return subtleStyle.Render("No suggestion available.") + "\n"
	}

	var cta string
	switch {
	case m.generating || m.view.IsGenerating:
		cta = ctaDisabledStyle.Render(m.spinner.View() + " Generating...")
	default:
		cta = ctaStyle.Render("Start workout")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		subtleStyle.Render("Suggested for you"),
		fmt.Sprintf("%s · %d min", s.Title, s.Duration),
		"",
		cta,
	)
	return cardStyle.Render(body)
}

func (m Model) viewStats() string {
	st := m.view.Stats
	if st == nil {
		return subtleStyle.Render("Stats unavailable.")
	}

	grid := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render(fmt.Sprintf("Workouts\n%d", st.TotalWorkouts)),
		cardStyle.Render(fmt.Sprintf("Streak\n%d days", st.CurrentStreak)),
		cardStyle.Render(fmt.Sprintf("This week\n%d min", st.WeeklyMinutes())),
	)

	var days []string
	for _, d := range st.WeeklySummary {
		days = append(days, fmt.Sprintf("%s %3d", d.Day, d.Minutes))
	}
	if len(days) == 0 {
		return grid
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid, subtleStyle.Render(strings.Join(days, "  ")))
}

func (m Model) viewChallenge() string {
	c := m.view.NextChallenge
	body := lipgloss.JoinVertical(lipgloss.Left,
		subtleStyle.Render("Next challenge"),
		fmt.Sprintf("%s · %s", c.Achievement.Name, c.Tier.Name),
		fmt.Sprintf("%d / %d (%d to go)", c.Current, c.Tier.Threshold, c.Remaining()),
		m.progress.ViewAs(float64(c.Progress())/100),
	)
	return cardStyle.Render(body)
}

func (m Model) viewRecent() string {
	lines := []string{subtleStyle.Render("Recent routines")}
	if len(m.view.RecentRoutines) == 0 {
		lines = append(lines, "No routines yet.")
	}
	for i, r := range m.view.RecentRoutines {
		line := fmt.Sprintf("  %s (%s, %d min)", r.Name, r.Preferences.Goal.Label(), r.Preferences.Duration)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line[2:])
		}
		lines = append(lines, line)
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m Model) viewBuilder() string {
	rec := m.record
	if rec == nil {
		return subtleStyle.Render("No generated plan.")
	}
	title := fmt.Sprintf("%s workout · %d min", rec.Preferences.Goal.Label(), rec.Preferences.Duration)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		subtleStyle.Render("Generated "+rec.Date),
		viewPlan(rec.Plan),
	)
}

func (m Model) viewRoutine() string {
	r := m.routine
	if r == nil {
		return subtleStyle.Render("No routine selected.")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(r.Name),
		subtleStyle.Render(fmt.Sprintf("%s · %d rounds", r.Preferences.Goal.Label(), r.Preferences.Rounds)),
		viewPlan(r.Plan),
	)
}

func viewPlan(p models.Plan) string {
	var b strings.Builder
	for _, section := range []struct {
		name  string
		steps []models.Step
	}{
		{"Warm-up", p.Warmup},
		{"Rounds", p.Rounds},
		{"Cool-down", p.Cooldown},
	} {
		if len(section.steps) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", selectedStyle.Render(section.name))
		for _, s := range section.steps {
			fmt.Fprintf(&b, "  • %s%s\n", s.Name, stepDetail(s))
		}
	}
	return b.String()
}

func stepDetail(s models.Step) string {
	switch {
	case s.Reps > 0:
		return fmt.Sprintf(" x%d", s.Reps)
	case s.DurationSec > 0:
		return fmt.Sprintf(" %ds", s.DurationSec)
	}
	return ""
}

func (m Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		lines[i] = dangerStyle.Render("! " + t)
	}
	return "\n" + strings.Join(lines, "\n")
}
