package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/repositories"
	"github.com/maxaizer/recruitment-funnel/internal/resume"
	"github.com/maxaizer/recruitment-funnel/internal/resume/resumetest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func newIntake(t *testing.T, env *pipelineEnv, parser DetailsParser) *ResumeIntake {
	t.Helper()
	intake, err := NewResumeIntake(env.resumes, env.graph, env.engine, resume.NewRanker(2), parser)
	require.NoError(t, err)
	return intake
}

func (env *pipelineEnv) addResume(t *testing.T, recruitmentID int, content []byte) *models.Resume {
	t.Helper()
	stored := &models.Resume{RecruitmentID: recruitmentID, FileName: "cv.pdf", Content: content}
	require.NoError(t, env.resumes.Add(context.Background(), stored))
	return stored
}

func Test_AutofillDocument_WhenNotPDF_ShouldReturnEmptyContact(t *testing.T) {
	assert.Equal(t, models.Contact{}, AutofillDocument([]byte("scanned image")))
}

func Test_CreateCandidateFromResume_WhenParserSucceeds_ShouldStoreDetailsAndClaim(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	stored := env.addResume(t, env.recruitment.ID, resumetest.ContactPDF())

	ai := &mockAiClient{}
	ai.On("GenerateResponse", mock.Anything, mock.Anything).
		Return(`{"skills": ["Go"], "summary": "Backend engineer"}`, nil).Once()
	intake := newIntake(t, env, NewResumeParser(ai, time.Second))

	candidate, err := intake.CreateCandidateFromResume(ctx, CreateFromResumeInput{
		ResumeID:      stored.ID,
		RecruitmentID: env.recruitment.ID,
		Actor:         env.managerActor(),
	})

	require.NoError(t, err)
	assert.Equal("John Smith", candidate.Name)
	assert.Equal("john@x.com", candidate.Email)
	assert.Equal("555-1234567", candidate.Phone)
	assert.Equal(stored.ID, *candidate.ResumeID)
	assert.True(candidate.IsInStage(env.applied.ID))

	claimed, err := env.resumes.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.True(claimed.Claimed)

	details, err := env.resumes.GetDetails(ctx, candidate.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal([]any{"Go"}, details.Skills)
	assert.Equal("Backend engineer", details.Summary)
	ai.AssertExpectations(t)
}

func Test_CreateCandidateFromResume_WhenParserFails_ShouldStillCreateCandidate(t *testing.T) {
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	stored := env.addResume(t, env.recruitment.ID, resumetest.ContactPDF())

	ai := &mockAiClient{}
	ai.On("GenerateResponse", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))
	intake := newIntake(t, env, NewResumeParser(ai, time.Second))

	candidate, err := intake.CreateCandidateFromResume(ctx, CreateFromResumeInput{
		ResumeID:      stored.ID,
		RecruitmentID: env.recruitment.ID,
		Actor:         env.managerActor(),
	})

	require.NoError(t, err)
	assert.Equal(t, "John Smith", candidate.Name)

	details, err := env.resumes.GetDetails(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Nil(t, details)
}

type unclaimableResumes struct {
	*repositories.Resumes
}

func (r unclaimableResumes) MarkClaimed(context.Context, int) error {
	return errors.New("database is locked")
}

func Test_CreateCandidateFromResume_WhenClaimFails_ShouldReturnCandidate(t *testing.T) {
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	stored := env.addResume(t, env.recruitment.ID, resumetest.ContactPDF())

	intake, err := NewResumeIntake(unclaimableResumes{env.resumes}, env.graph, env.engine, resume.NewRanker(1), nil)
	require.NoError(t, err)

	candidate, err := intake.CreateCandidateFromResume(ctx, CreateFromResumeInput{
		ResumeID:      stored.ID,
		RecruitmentID: env.recruitment.ID,
		Actor:         env.managerActor(),
	})

	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "John Smith", candidate.Name)

	candidates, err := env.graph.GetStageCandidates(ctx, env.applied.ID)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func Test_CreateCandidateFromResume_WhenResumeOfOtherRecruitment_ShouldFail(t *testing.T) {
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	other := models.NewRecruitment("Designer", 1)
	require.NoError(t, env.recruitments.Add(ctx, other))
	stored := env.addResume(t, other.ID, resumetest.ContactPDF())

	_, err := newIntake(t, env, nil).CreateCandidateFromResume(ctx, CreateFromResumeInput{
		ResumeID:      stored.ID,
		RecruitmentID: env.recruitment.ID,
		Actor:         models.Actor{Superuser: true},
	})

	assert.ErrorIs(t, err, models.ErrCrossRecruitment)

	unchanged, err := env.resumes.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.Claimed)
}

func Test_CreateCandidateFromResume_WhenActorNotManager_ShouldNotClaim(t *testing.T) {
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	stored := env.addResume(t, env.recruitment.ID, resumetest.ContactPDF())

	_, err := newIntake(t, env, nil).CreateCandidateFromResume(ctx, CreateFromResumeInput{
		ResumeID:      stored.ID,
		RecruitmentID: env.recruitment.ID,
		Actor:         models.Actor{EmployeeID: env.manager.ID + 100},
	})

	assert.ErrorIs(t, err, models.ErrForbidden)

	unchanged, err := env.resumes.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.False(t, unchanged.Claimed)
}

func Test_Complete_WhenNoParser_ShouldReturnContactOnly(t *testing.T) {
	env := newPipelineEnv(t, 1)

	completed := newIntake(t, env, nil).Complete(context.Background(), resumetest.ContactPDF())

	assert.Equal(t, "John Smith", completed.Contact.FullName)
	assert.Nil(t, completed.Details)
}

func Test_Rank_ShouldUseRecruitmentSkills(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	env := newPipelineEnv(t, 1)
	require.NoError(t, env.recruitments.SetSkills(ctx, env.recruitment.ID, []string{"python", "sql"}))

	java := env.addResume(t, env.recruitment.ID,
		resumetest.BuildPDF(resumetest.Line{Text: "Java developer", Size: 10, X: 72, Y: 700}))
	python := env.addResume(t, env.recruitment.ID,
		resumetest.BuildPDF(resumetest.Line{Text: "Python and SQL", Size: 10, X: 72, Y: 700}))
	scanned := env.addResume(t, env.recruitment.ID, []byte("image only"))

	ranked, err := newIntake(t, env, nil).Rank(ctx, env.recruitment.ID)

	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(python.ID, ranked[0].Resume.ID)
	assert.Equal(2, ranked[0].MatchCount)
	assert.Equal(java.ID, ranked[1].Resume.ID)
	assert.Equal(scanned.ID, ranked[2].Resume.ID)
	assert.True(ranked[2].ScannedImage)
}

func Test_NewResumeIntake_WhenDependencyMissing_ShouldFail(t *testing.T) {
	_, err := NewResumeIntake(nil, nil, nil, nil, nil)
	assert.Error(t, err)
}
