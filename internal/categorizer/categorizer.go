// Package categorizer maps transaction descriptions onto the closed category set.
package categorizer

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Rule assigns Category when Keyword occurs in a cleaned description.
type Rule struct {
	Keyword  string
	Category models.Category
}

// DefaultRules is ordered; the earliest matching rule wins.
var DefaultRules = []Rule{
	{"zomato", models.CategoryFood},
	{"uber", models.CategoryTravel},
	{"amazon", models.CategoryShopping},
	{"fuel", models.CategoryFuel},
	{"petrol", models.CategoryFuel},
	{"swiggy", models.CategoryFood},
	{"bookmyshow", models.CategoryEntertainment},
	{"bata", models.CategoryShopping},
	{"gwalia sweets", models.CategoryFood},
	{"shoppers stop", models.CategoryShopping},
	{"infiniti payment", models.CategoryPayment},
}

var nonAlnumSpace = regexp.MustCompile(`[^a-z0-9 ]`)

// Clean lowercases s and drops everything except ASCII letters, digits and spaces.
func Clean(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return nonAlnumSpace.ReplaceAllString(s, "")
}

// Categorizer scans all keywords in one pass and resolves overlaps by rule order.
type Categorizer struct {
	rules   []Rule
	matcher *ahocorasick.Matcher
}

// New builds a Categorizer over rules. Keywords are expected in cleaned form.
func New(rules []Rule) *Categorizer {
	keywords := make([]string, len(rules))
	for i, r := range rules {
		keywords[i] = r.Keyword
	}
	return &Categorizer{
		rules:   rules,
		matcher: ahocorasick.NewStringMatcher(keywords),
	}
}

// Default returns a Categorizer over DefaultRules.
func Default() *Categorizer {
	return New(DefaultRules)
}

// Categorize cleans description and returns the category of the first matching rule,
// or Other.
func (c *Categorizer) Categorize(description string) models.Category {
	return c.CategorizeClean(Clean(description))
}

// CategorizeClean is Categorize for an already cleaned description.
func (c *Categorizer) CategorizeClean(clean string) models.Category {
	if clean == "" || len(c.rules) == 0 {
		return models.CategoryOther
	}
	hits := c.matcher.Match([]byte(clean))
	if len(hits) == 0 {
		return models.CategoryOther
	}
	first := hits[0]
	for _, h := range hits[1:] {
		if h < first {
			first = h
		}
	}
	return c.rules[first].Category
}
