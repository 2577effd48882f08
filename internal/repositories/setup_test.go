package repositories

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

func newTestDbContext(t *testing.T) *DbContext {
	t.Helper()

	connectionString := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	dbCtx, err := NewDbContext(DriverSqlite, connectionString)
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

type pipelineFixture struct {
	graph       *StageGraph
	recruitment *models.Recruitment
	initial     *models.Stage
	interview   *models.Stage
	hired       *models.Stage
}

func newPipelineFixture(t *testing.T, dbCtx *DbContext) *pipelineFixture {
	t.Helper()
	ctx := context.Background()

	recruitment := models.NewRecruitment("Backend developer", 2)
	require.NoError(t, NewRecruitmentsRepository(dbCtx.DB).Add(ctx, recruitment))

	graph := NewStageGraph(dbCtx.DB)
	initial := models.NewStage(recruitment.ID, "Applied", models.StageInitial, 0)
	interview := models.NewStage(recruitment.ID, "Interview", models.StageNormal, 0)
	hired := models.NewStage(recruitment.ID, "Hired", models.StageHired, 0)
	for _, stage := range []*models.Stage{initial, interview, hired} {
		require.NoError(t, graph.AddStage(ctx, stage))
	}

	return &pipelineFixture{
		graph:       graph,
		recruitment: recruitment,
		initial:     initial,
		interview:   interview,
		hired:       hired,
	}
}

func (f *pipelineFixture) addCandidates(t *testing.T, names ...string) []models.Candidate {
	t.Helper()

	candidates := make([]models.Candidate, 0, len(names))
	for _, name := range names {
		candidate := models.NewCandidate(f.recruitment.ID, models.Contact{FullName: name})
		require.NoError(t, f.graph.AddCandidate(context.Background(), candidate, time.Now()))
		candidates = append(candidates, *candidate)
	}
	return candidates
}

func candidateIDs(candidates []models.Candidate) []int {
	ids := make([]int, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.ID)
	}
	return ids
}
