package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/swimtrack/swimtrack/internal/views"
)

var (
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
)

// printList writes one line per training: ID, date, title, meters, summary.
func printList(w io.Writer, list []views.TrainView) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No trainings found.")
		return
	}
	for _, v := range list {
		meters := faint.Sprint("     -")
		if v.TotalMeters != nil {
			meters = green.Sprintf("%5dm", *v.TotalMeters)
		}
		line := fmt.Sprintf("%s %s %s %s",
			faint.Sprintf("%5d", v.ID),
			faint.Sprint(padRight(v.PublishedLabel, 10)),
			padRight(truncate(v.Title, 28), 28),
			meters,
		)
		if v.Creator != nil {
			line += faint.Sprintf("  @%s", v.Creator.Name)
		}
		fmt.Fprintln(w, line)
		if v.Summary != "" {
			fmt.Fprintln(w, "      "+faint.Sprint(truncate(v.Summary, 72)))
		}
	}
}

// printTrain writes a training block by block.
func printTrain(w io.Writer, v views.TrainView) {
	bold.Fprintln(w, v.Title)
	if v.PublishedLabel != "" {
		faint.Fprintf(w, "Publicado %s\n", v.PublishedLabel)
	}
	fmt.Fprintln(w)

	if !v.Structured {
		fmt.Fprintln(w, v.Text)
	}
	for _, b := range v.Blocks {
		fmt.Fprintf(w, "%s %s\n", cyan.Sprint(b.Label), faint.Sprintf("(%dm)", b.Subtotal))
		for _, l := range b.Lines {
			fmt.Fprintf(w, "  - %s\n", l)
		}
	}
	if v.TotalMeters != nil {
		fmt.Fprintln(w)
		green.Fprintf(w, "Total: %dm\n", *v.TotalMeters)
		if v.TotalCycles > 0 {
			faint.Fprintf(w, "Ciclos: %d\n", v.TotalCycles)
		}
	}
	if v.Rating != nil && v.Rating.Average != nil {
		faint.Fprintf(w, "Valoración: %.1f (%d)\n", *v.Rating.Average, v.Rating.Total)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func padRight(s string, length int) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return s + strings.Repeat(" ", length-n)
}
