package resume

import (
	"bytes"
	"fmt"
	"github.com/ledongthuc/pdf"
	log "github.com/sirupsen/logrus"
	"iter"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Span is a run of text sharing one font on one line.
type Span struct {
	Text     string
	FontSize float64
	CapRatio float64
}

func NewSpan(text string, fontSize float64) Span {
	return Span{Text: text, FontSize: fontSize, CapRatio: capRatio(text)}
}

func capRatio(text string) float64 {
	total, upper := 0, 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lower-cases the text and splits it into alphanumeric words.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Document is a best-effort view over a PDF. A document that cannot be opened
// behaves as an empty one and reports the cause through Err.
type Document struct {
	reader *pdf.Reader
	err    error
}

func Open(data []byte) (doc *Document) {
	defer func() {
		if r := recover(); r != nil {
			doc = &Document{err: fmt.Errorf("pdf reader panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return &Document{err: err}
	}
	return &Document{reader: reader}
}

func (d *Document) Err() error {
	return d.err
}

// Spans yields every non-blank span in page, line and reading order.
// Each call starts over from the first page.
func (d *Document) Spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for index := 1; index <= d.numPages(); index++ {
			for _, line := range d.pageLines(index) {
				for _, span := range line {
					if !yield(span) {
						return
					}
				}
			}
		}
	}
}

// Words yields the lower-cased word tokens of every page.
func (d *Document) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		for span := range d.Spans() {
			for _, word := range Tokenize(span.Text) {
				if !yield(word) {
					return
				}
			}
		}
	}
}

// Text returns the readable text, one layout line per row.
func (d *Document) Text() string {
	var sb strings.Builder
	for index := 1; index <= d.numPages(); index++ {
		for _, line := range d.pageLines(index) {
			texts := make([]string, 0, len(line))
			for _, span := range line {
				texts = append(texts, span.Text)
			}
			sb.WriteString(strings.Join(texts, " "))
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

func (d *Document) numPages() (count int) {
	if d.reader == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debugf("unreadable page tree: %v", r)
			count = 0
		}
	}()
	return d.reader.NumPage()
}

// pageLines returns nil for a page that cannot be decoded.
func (d *Document) pageLines(index int) (lines [][]Span) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("page", index).Debugf("skipping unreadable page: %v", r)
			lines = nil
		}
	}()

	page := d.reader.Page(index)
	if page.V.IsNull() {
		return nil
	}

	for _, line := range groupLines(page.Content().Text) {
		if spans := lineSpans(line); len(spans) > 0 {
			lines = append(lines, spans)
		}
	}
	return lines
}

const lineTolerance = 2.0

// groupLines buckets glyphs into lines top to bottom, each sorted left to right.
func groupLines(texts []pdf.Text) [][]pdf.Text {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]pdf.Text
	var current []pdf.Text
	lineY := sorted[0].Y
	for _, text := range sorted {
		if math.Abs(text.Y-lineY) > lineTolerance {
			lines = append(lines, current)
			current = nil
			lineY = text.Y
		}
		current = append(current, text)
	}
	lines = append(lines, current)

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X < line[j].X
		})
	}
	return lines
}

// lineSpans merges neighbouring glyphs of the same font into spans.
func lineSpans(line []pdf.Text) []Span {
	var spans []Span
	var sb strings.Builder
	var font string
	var size float64
	var prevEnd float64

	flush := func() {
		if text := strings.TrimSpace(sb.String()); text != "" {
			spans = append(spans, NewSpan(text, size))
		}
		sb.Reset()
	}

	for i, text := range line {
		if i == 0 || text.Font != font || text.FontSize != size {
			flush()
			font, size = text.Font, text.FontSize
		} else if text.X-prevEnd > 0.15*size {
			sb.WriteString(" ")
		}
		sb.WriteString(text.S)
		prevEnd = text.X + text.W
	}
	flush()

	return spans
}
