package resume

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/resume/resumetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slices"
	"testing"
)

func Test_Order_ShouldRankUnclaimedByMatchCount(t *testing.T) {
	skills := []string{"Python", "SQL"}
	words := [][]string{{"python", "sql"}, {"java"}, {"python"}}

	var scored []models.RankedResume
	for i, set := range words {
		count, _ := MatchCount(skills, slices.Values(set))
		scored = append(scored, models.RankedResume{Resume: models.Resume{ID: i + 1}, MatchCount: count})
	}

	ordered := Order(scored)

	counts := make([]int, 0, len(ordered))
	for _, item := range ordered {
		counts = append(counts, item.MatchCount)
	}
	assert.Equal(t, []int{2, 1, 0}, counts)
	assert.Equal(t, 1, ordered[0].Resume.ID)
	assert.Equal(t, 3, ordered[1].Resume.ID)
}

func Test_Order_ShouldPlaceClaimedAfterUnclaimedAndKeepTies(t *testing.T) {
	ranked := []models.RankedResume{
		{Resume: models.Resume{ID: 1, Claimed: true}, MatchCount: 5},
		{Resume: models.Resume{ID: 2}, MatchCount: 0},
		{Resume: models.Resume{ID: 3}, MatchCount: 1},
		{Resume: models.Resume{ID: 4}, MatchCount: 0},
		{Resume: models.Resume{ID: 5, Claimed: true}, MatchCount: 7},
	}

	ordered := Order(ranked)

	ids := make([]int, 0, len(ordered))
	for _, item := range ordered {
		ids = append(ids, item.Resume.ID)
	}
	assert.Equal(t, []int{3, 2, 4, 5, 1}, ids)
}

func Test_MatchCount_ShouldIgnoreCaseAndFlagEmptyDocuments(t *testing.T) {
	count, empty := MatchCount([]string{"Go", "Kafka"}, slices.Values([]string{"go", "docker"}))
	assert.Equal(t, 1, count)
	assert.False(t, empty)

	count, empty = MatchCount([]string{"Go"}, slices.Values([]string(nil)))
	assert.Equal(t, 0, count)
	assert.True(t, empty)
}

func Test_Rank_ShouldScorePDFsAndFlagScannedImages(t *testing.T) {
	assert := assert.New(t)
	resumes := []models.Resume{
		{ID: 1, Content: resumetest.BuildPDF(resumetest.Line{Text: "Java developer", Size: 10, X: 72, Y: 700})},
		{ID: 2, Content: []byte("image only")},
		{ID: 3, Content: resumetest.BuildPDF(resumetest.Line{Text: "Python and SQL", Size: 10, X: 72, Y: 700})},
		{ID: 4, Content: resumetest.BuildPDF(resumetest.Line{Text: "Python", Size: 10, X: 72, Y: 700}), Claimed: true},
	}

	ranked, err := NewRanker(3).Rank(context.Background(), []string{"Python", "SQL"}, resumes)
	require.NoError(t, err)

	ids := make([]int, 0, len(ranked))
	for _, item := range ranked {
		ids = append(ids, item.Resume.ID)
	}
	assert.Equal([]int{3, 1, 2, 4}, ids)
	assert.Equal(2, ranked[0].MatchCount)
	assert.True(ranked[2].ScannedImage)
	assert.False(ranked[1].ScannedImage)
}
