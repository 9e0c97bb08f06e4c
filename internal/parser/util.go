package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// DD-MM-YYYY at the start of a line, the anchor used by the Indian bank grammars.
var datePatternDash = regexp.MustCompile(`^(\d{2}-\d{2}-\d{4})`)

// numericToken matches a comma-stripped token that carries an amount or balance.
var numericToken = regexp.MustCompile(`^\d+\.?\d*$`)

// parseAmount converts a string like "1,234.56" or "₹1,234.56" to a float64.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, "Rs.", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space

	if s == "" || s == "-" {
		return 0, nil
	}

	return strconv.ParseFloat(s, 64)
}

// formatAmount renders a parsed amount for RawTransaction.Amount.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// isNumericToken reports whether a whitespace-separated token is an amount.
func isNumericToken(tok string) bool {
	return numericToken.MatchString(strings.ReplaceAll(tok, ",", ""))
}

// numericTokens collects the amounts in fields, in appearance order.
func numericTokens(fields []string) []float64 {
	var amounts []float64
	for _, f := range fields {
		if !isNumericToken(f) {
			continue
		}
		v, err := parseAmount(f)
		if err != nil {
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts
}

// descriptionBeforeAmount joins the tokens after the date up to the first amount token.
func descriptionBeforeAmount(fields []string) string {
	if len(fields) < 2 {
		return ""
	}
	var desc []string
	for _, f := range fields[1:] {
		if isNumericToken(f) {
			break
		}
		desc = append(desc, f)
	}
	return strings.Join(desc, " ")
}

// splitLines returns the trimmed, non-empty lines of text.
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// block is a transaction-start line followed by its continuation lines.
type block struct {
	head string
	tail []string
}

// continuation joins the continuation lines with single spaces.
func (b block) continuation() string {
	return strings.Join(b.tail, " ")
}

// joined is the whole block as one line.
func (b block) joined() string {
	if len(b.tail) == 0 {
		return b.head
	}
	return b.head + " " + b.continuation()
}

// splitBlocks groups lines into blocks. A line for which isStart is true opens
// a new block; any other line continues the open block. Lines before the first
// start are dropped.
func splitBlocks(text string, isStart func(string) bool) []block {
	var blocks []block
	open := false
	for _, line := range splitLines(text) {
		if isStart(line) {
			blocks = append(blocks, block{head: line})
			open = true
			continue
		}
		if open {
			last := &blocks[len(blocks)-1]
			last.tail = append(last.tail, line)
		}
	}
	return blocks
}

// appendDescription appends continuation text to a description with a single space.
func appendDescription(desc, more string) string {
	if more == "" {
		return desc
	}
	if desc == "" {
		return more
	}
	return desc + " " + more
}

// startsWithDashDate reports whether line opens with a DD-MM-YYYY date.
func startsWithDashDate(line string) bool {
	return datePatternDash.MatchString(line)
}
