package resume

import (
	"github.com/maxaizer/recruitment-funnel/internal/resume/resumetest"
	"github.com/stretchr/testify/assert"
	"slices"
	"testing"
)

func Test_Spans_ShouldFollowLayoutWithFontSizes(t *testing.T) {
	assert := assert.New(t)
	doc := Open(resumetest.ContactPDF())
	assert.NoError(doc.Err())

	spans := slices.Collect(doc.Spans())

	assert.Len(spans, 3)
	assert.Equal("John Smith", spans[0].Text)
	assert.Equal(24.0, spans[0].FontSize)
	assert.InDelta(0.2, spans[0].CapRatio, 0.001)
	assert.Equal("john@x.com", spans[1].Text)
	assert.Equal("555-1234567", spans[2].Text)
	assert.Equal(10.0, spans[2].FontSize)
}

func Test_Spans_ShouldBeRestartable(t *testing.T) {
	doc := Open(resumetest.ContactPDF())

	first := slices.Collect(doc.Spans())
	second := slices.Collect(doc.Spans())

	assert.Equal(t, first, second)
}

func Test_Open_WhenNotPDF_ShouldYieldNothing(t *testing.T) {
	assert := assert.New(t)
	doc := Open([]byte("definitely not a pdf"))

	assert.Error(doc.Err())
	assert.Empty(slices.Collect(doc.Spans()))
	assert.Empty(slices.Collect(doc.Words()))
	assert.Empty(doc.Text())
}

func Test_Words_ShouldLowercaseAndSplit(t *testing.T) {
	doc := Open(resumetest.BuildPDF(resumetest.Line{Text: "Python, SQL and Go_lang", Size: 11, X: 72, Y: 700}))

	words := slices.Collect(doc.Words())

	assert.Equal(t, []string{"python", "sql", "and", "go_lang"}, words)
}

func Test_Text_ShouldKeepOneRowPerLine(t *testing.T) {
	doc := Open(resumetest.ContactPDF())

	assert.Equal(t, "John Smith\njohn@x.com\n555-1234567", doc.Text())
}

func Test_CapRatio_WhenEmpty_ShouldBeZero(t *testing.T) {
	assert.Equal(t, 0.0, NewSpan("", 10).CapRatio)
	assert.Equal(t, 1.0, NewSpan("CV", 10).CapRatio)
}
