package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"academy/internal/application/projections"
)

// isTerminal returns true if w is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// printer writes aligned, colored tables to terminals and tab-separated
// rows everywhere else so output stays easy to pipe.
type printer struct {
	w      io.Writer
	styled bool

	header   lipgloss.Style
	favorite lipgloss.Style
	muted    lipgloss.Style
	label    lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:        w,
		styled:   isTerminal(w),
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		favorite: r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("245")),
		label:    r.NewStyle().Bold(true).Width(12),
	}
}

var courseColumns = []struct {
	title string
	width int
}{
	{"", 2},
	{"ID", 12},
	{"NAME", 32},
	{"TOPIC", 18},
	{"DIFFICULTY", 14},
	{"DURATION", 10},
	{"PRICE", 8},
}

func courseRow(c projections.CourseCard) []string {
	mark := ""
	if c.Favorite {
		mark = "*"
	}
	return []string{mark, c.ID, c.Name, c.Topic, c.Difficulty, c.Duration, formatPrice(c.Price)}
}

// Courses prints one row per course.
func (p *printer) Courses(cards []projections.CourseCard) {
	if !p.styled {
		for _, c := range cards {
			fmt.Fprintln(p.w, strings.Join(courseRow(c), "\t"))
		}
		return
	}

	cells := make([]string, len(courseColumns))
	for i, col := range courseColumns {
		cells[i] = p.header.Width(col.width).Render(col.title)
	}
	fmt.Fprintln(p.w, strings.Join(cells, " "))
	for _, c := range cards {
		row := courseRow(c)
		for i, col := range courseColumns {
			style := p.muted
			if c.Favorite {
				style = p.favorite
			}
			if i > 0 && i < 3 {
				style = style.UnsetForeground()
			}
			cells[i] = style.Width(col.width).MaxWidth(col.width).Render(row[i])
		}
		fmt.Fprintln(p.w, strings.Join(cells, " "))
	}
}

// Course prints a detail view.
func (p *printer) Course(card projections.CourseCard) {
	fields := [][2]string{
		{"ID", card.ID},
		{"Name", card.Name},
		{"Topic", card.Topic},
		{"Difficulty", card.Difficulty},
		{"Duration", card.Duration},
		{"Price", formatPrice(card.Price)},
		{"Favorite", fmt.Sprintf("%t", card.Favorite)},
	}
	for _, f := range fields {
		if p.styled {
			fmt.Fprintf(p.w, "%s %s\n", p.label.Render(f[0]+":"), f[1])
		} else {
			fmt.Fprintf(p.w, "%s:\t%s\n", f[0], f[1])
		}
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, card.Description)
}

// Info prints a one-line message.
func (p *printer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.styled {
		msg = p.muted.Render(msg)
	}
	fmt.Fprintln(p.w, msg)
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}
