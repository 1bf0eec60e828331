package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/kass/mercator-puzzle/pkg/models"
)

// tone is an ANSI SGR sequence used to mark one kind of report line.
type tone string

const (
	toneHeading tone = "\033[1;35m"
	toneSection tone = "\033[1;36m"
	toneOK      tone = "\033[32m"
	toneNote    tone = "\033[33m"
	toneAlert   tone = "\033[31m"
	toneLabel   tone = "\033[1m"
	toneReset   tone = "\033[0m"
)

// report writes the human-readable output of the subcommands. Tones are
// dropped when out is not a terminal, so piped output stays plain.
type report struct {
	out   io.Writer
	color bool
}

var stdout = newReport(os.Stdout)

func newReport(f *os.File) *report {
	return &report{out: f, color: isTerminal(f)}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *report) paint(t tone, s string) string {
	if !r.color {
		return s
	}
	return string(t) + s + string(toneReset)
}

func (r *report) line(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func printTitle(title string) {
	stdout.line("\n%s", stdout.paint(toneHeading, "🌍 "+title))
	stdout.line("%s", strings.Repeat("=", 60))
}

func printSubtitle(subtitle string) {
	stdout.line("\n%s", stdout.paint(toneSection, subtitle))
}

func printSuccess(message string) {
	stdout.line("%s", stdout.paint(toneOK, "✓ "+message))
}

func printInfo(message string) {
	stdout.line("%s", stdout.paint(toneNote, "• "+message))
}

// printWarning reports a country that could not be handled as asked, such as
// a placement warning or an unreachable target.
func printWarning(message string) {
	stdout.line("%s", stdout.paint(toneAlert, "! "+message))
}

func printStat(label string, value interface{}) {
	stdout.line("  %s %s", stdout.paint(toneLabel, label+":"), stdout.paint(toneNote, fmt.Sprint(value)))
}

// printProgress draws the share of fixed countries in a round.
func printProgress(fixed, total int, label string) {
	if total <= 0 {
		return
	}
	const width = 40
	filled := fixed * width / total
	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
	stdout.line("%s %s %s", label, stdout.paint(toneSection, fmt.Sprintf("%d/%d", fixed, total)), bar)
}

func formatLatLng(p models.LatLng) string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lng)
}
