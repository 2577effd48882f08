package main

import (
	"bytes"
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/config"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func newTestApp(t *testing.T) *app {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_CONNECTION_STRING", filepath.Join(t.TempDir(), "funnel.db")+"?_pragma=busy_timeout(5000)")
	t.Setenv("PARSER_PROVIDER", "none")
	t.Setenv("TG_TOKEN", "")
	t.Setenv("AMQP_URL", "")

	a, err := newApp(context.Background(), config.Get("../configs/config.yaml"))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NoError(t, a.dbContext.Migrate())
	return a
}

func Test_App_WhenCandidateMovedToHired_ShouldShowOnBoard(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	a := newTestApp(t)

	recruitment := models.NewRecruitment("Backend developer", 1)
	require.NoError(t, a.recruitments.Add(ctx, recruitment))
	applied := models.NewStage(recruitment.ID, "Applied", models.StageInitial, 0)
	hired := models.NewStage(recruitment.ID, "Hired", models.StageHired, 0)
	require.NoError(t, a.graph.AddStage(ctx, applied))
	require.NoError(t, a.graph.AddStage(ctx, hired))

	superuser := models.Actor{Superuser: true}
	candidate, err := a.engine.AddCandidate(ctx, services.AddCandidateInput{
		RecruitmentID: recruitment.ID,
		Contact:       models.Contact{FullName: "Ann Lee", Email: "ann@x.com"},
		Actor:         superuser,
	})
	require.NoError(t, err)

	outcome, err := a.engine.MoveCandidate(ctx, services.MoveCandidateInput{
		CandidateID: candidate.ID,
		StageID:     hired.ID,
		Actor:       superuser,
	})
	require.NoError(t, err)
	assert.True(outcome.VacancyFilled)

	snapshot, err := a.sessions.GetOrPopulate(ctx, a.sessions.NewSessionKey(), models.PipelineFilter{Search: "ann"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printBoard(&out, snapshot))
	assert.Contains(out.String(), "Backend developer")
	assert.Contains(out.String(), "Hired (hired)")
	assert.Contains(out.String(), "Ann Lee")
}

func Test_App_WhenParserDisabled_ShouldCompleteWithoutDetails(t *testing.T) {
	a := newTestApp(t)

	completed := a.intake.Complete(context.Background(), []byte("not a pdf"))

	assert.Equal(t, models.Contact{}, completed.Contact)
	assert.Nil(t, completed.Details)
}
