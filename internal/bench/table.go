package bench

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	rowFormat = "| %-14s | %-15s | %-15s | %-13s | %-7s |\n"
	divider   = "+----------------+-----------------+-----------------+---------------+---------+\n"
)

// WriteTable renders report as the console results table: the multiple
// worker sweep first, then the single worker baseline.
func WriteTable(w io.Writer, report *Report) error {
	p := message.NewPrinter(language.English)

	var b strings.Builder
	b.WriteString(divider)
	fmt.Fprintf(&b, rowFormat, "Threads Used", "Total Sum", "Nanoseconds", "Milliseconds", "Correct")
	b.WriteString(divider)

	var single []Result
	for _, res := range report.Results {
		if res.Mode == ModeSingle {
			single = append(single, res)
			continue
		}
		writeRow(&b, p, res)
	}
	b.WriteString(divider)

	for _, res := range single {
		writeRow(&b, p, res)
	}
	if len(single) > 0 {
		b.WriteString(divider)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRow(b *strings.Builder, p *message.Printer, res Result) {
	label := "Single"
	if res.Mode == ModeMultiple {
		label = fmt.Sprintf("Multiple (%d)", res.Workers)
	}

	sum := p.Sprintf("%d", res.Sum)
	if res.Error != "" {
		sum = "error"
	}

	correct := "no"
	if res.Correct {
		correct = "yes"
	}

	fmt.Fprintf(b, rowFormat,
		label,
		sum,
		p.Sprintf("%d", res.Elapsed.Nanoseconds()),
		p.Sprintf("%d", res.Elapsed.Milliseconds()),
		correct,
	)
}
