package resume

import (
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"iter"
	"regexp"
	"sort"
	"strings"
	"time"
)

// addressLabel is removed once from a span that mentions an address.
const addressLabel = "Address:"

var (
	phonePattern = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?|\b)\d{3,4}[\s-]?\d{6,10}\b`)
	dobPattern   = regexp.MustCompile(`\b(?:\d{1,2}|\d{4})[-/.,]\d{1,2}[-/.,](?:\d{1,2}|\d{4})\b`)
	zipPattern   = regexp.MustCompile(`\b\d{5,6}(?:-\d{4})?\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// dobLayouts are tried in order; the first one that parses wins.
var dobLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"2/1/2006",
	"2006.1.2",
	"2.1.2006",
}

// NormalizeDob renders a date-shaped token as YYYY-MM-DD, or returns it unchanged.
func NormalizeDob(raw string) string {
	for _, layout := range dobLayouts {
		if date, err := time.Parse(layout, raw); err == nil {
			return date.Format(time.DateOnly)
		}
	}
	return raw
}

// RankSpans orders spans by font size then capitalization ratio, both descending.
func RankSpans(spans iter.Seq[Span]) []Span {
	var ranked []Span
	for span := range spans {
		ranked = append(ranked, span)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FontSize != ranked[j].FontSize {
			return ranked[i].FontSize > ranked[j].FontSize
		}
		return ranked[i].CapRatio > ranked[j].CapRatio
	})
	return ranked
}

// ExtractContact guesses contact fields from the layout. The name is every span set
// in the largest font. Every other field takes the first ranked span matching it.
func ExtractContact(spans iter.Seq[Span]) models.Contact {
	var contact models.Contact

	ranked := RankSpans(spans)
	if len(ranked) == 0 {
		return contact
	}

	var names []string
	for _, span := range ranked {
		if span.FontSize != ranked[0].FontSize {
			break
		}
		names = append(names, span.Text)
	}
	contact.FullName = strings.Join(names, " ")

	for _, span := range ranked {
		text := span.Text

		if contact.Phone == "" {
			if match := phonePattern.FindString(text); match != "" {
				contact.Phone = match
			}
		}
		if contact.Dob == "" {
			if match := dobPattern.FindString(text); match != "" {
				contact.Dob = NormalizeDob(match)
			}
		}
		if contact.Zip == "" {
			if match := zipPattern.FindString(text); match != "" {
				contact.Zip = match
			}
		}
		if contact.Email == "" {
			if match := emailPattern.FindString(text); match != "" {
				contact.Email = match
			}
		}
		if contact.Address == "" && strings.Contains(strings.ToLower(text), "address") {
			contact.Address = strings.TrimSpace(strings.Replace(text, addressLabel, "", 1))
		}

		if contact.Country != "" && contact.State != "" {
			continue
		}
		for _, word := range strings.Fields(text) {
			name := capitalize(word)
			if contact.Country == "" && countries[name] {
				contact.Country = word
			}
			if contact.State == "" && states[name] {
				contact.State = word
			}
		}
	}

	return contact
}

func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
