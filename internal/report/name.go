package report

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

var monthFolders = map[string]bool{
	"jan": true, "feb": true, "mar": true, "apr": true, "may": true, "jun": true,
	"jul": true, "aug": true, "sep": true, "oct": true, "nov": true, "dec": true,
}

var monthInName = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|\d{2})`)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MonthHint guesses the statement month from the path. The innermost folder
// named like a month abbreviation or made of digits wins; otherwise the first
// month abbreviation or two-digit run in the file name.
func MonthHint(path string) string {
	var month string
	for _, part := range strings.Split(filepath.Dir(filepath.Clean(path)), string(os.PathSeparator)) {
		if monthFolders[strings.ToLower(part)] || isDigits(part) {
			month = part
		}
	}
	if month != "" {
		return month
	}
	return monthInName.FindString(strings.ToLower(filepath.Base(path)))
}

// Name is "<bank>_<month>" when both are known, else the file stem.
func Name(path string, bank models.BankType) string {
	month := MonthHint(path)
	if bank != "" && month != "" {
		return normalize(string(bank) + "_" + month)
	}
	base := filepath.Base(path)
	return normalize(strings.TrimSuffix(base, filepath.Ext(base)))
}

// CombinedName names the report of a merged directory run.
func CombinedName(dir string) string {
	return normalize("combined_" + filepath.Base(filepath.Clean(dir)))
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
