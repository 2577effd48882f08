package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strconv"
	"testing"
)

func Test_VacancyReporter_Report_ShouldPublishHiredCounts(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	candidates := env.addCandidates(t, env.recruitment.ID, "Ann")
	_, err := env.engine.MoveCandidate(ctx, MoveCandidateInput{
		CandidateID: candidates[0].ID,
		StageID:     env.hired.ID,
		Actor:       env.managerActor(),
	})
	require.NoError(t, err)

	closed := models.NewRecruitment("Closed", 1)
	require.NoError(t, env.recruitments.Add(ctx, closed))
	require.NoError(t, env.recruitments.SetClosed(ctx, closed.ID, true))

	reporter, err := NewVacancyReporter(env.recruitments, NewVacancyTracker(env.graph), "@hourly")
	require.NoError(t, err)

	reporter.Report(ctx)

	label := strconv.Itoa(env.recruitment.ID)
	assert.Equal(1.0, testutil.ToFloat64(metrics.HiredGauge.WithLabelValues(label)))
	assert.Equal(1.0, testutil.ToFloat64(metrics.VacancyFilledGauge.WithLabelValues(label)))
	assert.Equal(1, testutil.CollectAndCount(metrics.HiredGauge))
}

func Test_NewVacancyReporter_WhenScheduleInvalid_ShouldFail(t *testing.T) {
	env := newPipelineEnv(t, 1)

	_, err := NewVacancyReporter(env.recruitments, NewVacancyTracker(env.graph), "every tuesday")

	assert.Error(t, err)
}
