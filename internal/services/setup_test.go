package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/repositories"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"time"
)

type pipelineEnv struct {
	engine       *PipelineEngine
	graph        *repositories.StageGraph
	recruitments *repositories.Recruitments
	resumes      *repositories.Resumes
	skillZones   *repositories.SkillZones
	bus          EventBus.Bus

	manager     models.Employee
	recruitment *models.Recruitment
	applied     *models.Stage
	interview   *models.Stage
	hired       *models.Stage
	cancelled   *models.Stage
}

func newPipelineEnv(t *testing.T, vacancy int) *pipelineEnv {
	t.Helper()
	ctx := context.Background()

	connectionString := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	dbCtx, err := repositories.NewDbContext(repositories.DriverSqlite, connectionString)
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })

	env := &pipelineEnv{
		graph:        repositories.NewStageGraph(dbCtx.DB),
		recruitments: repositories.NewRecruitmentsRepository(dbCtx.DB),
		resumes:      repositories.NewResumesRepository(dbCtx.DB),
		skillZones:   repositories.NewSkillZonesRepository(dbCtx.DB),
		bus:          EventBus.New(),
		manager:      models.Employee{Name: "Maria", TelegramChatID: 42},
	}

	require.NoError(t, env.recruitments.AddEmployee(ctx, &env.manager))

	env.recruitment = models.NewRecruitment("Backend developer", vacancy)
	require.NoError(t, env.recruitments.Add(ctx, env.recruitment))
	require.NoError(t, env.recruitments.SetManagers(ctx, env.recruitment.ID, []models.Employee{env.manager}))

	env.applied = env.addStage(t, env.recruitment.ID, "Applied", models.StageInitial)
	env.interview = env.addStage(t, env.recruitment.ID, "Interview", models.StageNormal)
	env.hired = env.addStage(t, env.recruitment.ID, "Hired", models.StageHired)
	env.cancelled = env.addStage(t, env.recruitment.ID, "Cancelled", models.StageCancelled)

	env.engine, err = NewPipelineEngine(env.graph, NewVacancyTracker(env.graph), NewManagerGate(), env.bus,
		env.recruitments, env.skillZones)
	require.NoError(t, err)

	return env
}

func (env *pipelineEnv) addStage(t *testing.T, recruitmentID int, title string, stageType models.StageType) *models.Stage {
	t.Helper()
	stage := models.NewStage(recruitmentID, title, stageType, 0)
	require.NoError(t, env.graph.AddStage(context.Background(), stage))
	return stage
}

func (env *pipelineEnv) managerActor() models.Actor {
	return models.Actor{EmployeeID: env.manager.ID}
}

func (env *pipelineEnv) addCandidates(t *testing.T, recruitmentID int, names ...string) []*models.Candidate {
	t.Helper()

	candidates := make([]*models.Candidate, 0, len(names))
	for _, name := range names {
		candidate, err := env.engine.AddCandidate(context.Background(), AddCandidateInput{
			RecruitmentID: recruitmentID,
			Contact:       models.Contact{FullName: name},
			Actor:         models.Actor{Superuser: true},
		})
		require.NoError(t, err)
		candidates = append(candidates, candidate)
	}
	return candidates
}

func (env *pipelineEnv) reload(t *testing.T, candidateID int) *models.Candidate {
	t.Helper()
	candidate, err := env.graph.GetCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	return candidate
}

func datePtr(year int, month time.Month, day int) *time.Time {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &date
}
