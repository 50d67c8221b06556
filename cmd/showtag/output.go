package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"showtag/internal/tagging"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func printOutcomes(out io.Writer, outcomes []tagging.Outcome) {
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		row := outcomeRow(outcome)
		if colorize {
			row[1] = statusColor(outcome.Status) + row[1] + ansiReset
		}
		rows = append(rows, row)
	}
	headers := []string{"FOLDER", "STATUS", "SHNID", "SOURCE", "TRACKS", "DETAIL"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}

func statusColor(status tagging.Status) string {
	switch status {
	case tagging.StatusTagged:
		return ansiGreen
	case tagging.StatusReview:
		return ansiYellow
	default:
		return ansiRed
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
