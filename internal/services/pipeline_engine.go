package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/recruitment-funnel/internal/domain/events"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/logger"
	"github.com/maxaizer/recruitment-funnel/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"time"
)

type stageGraph interface {
	GetCandidate(ctx context.Context, id int) (*models.Candidate, error)
	GetStage(ctx context.Context, id int) (*models.Stage, error)
	GetRecruitment(ctx context.Context, id int) (*models.Recruitment, error)
	LatestStageVisit(ctx context.Context, candidateID int, stageID int) (*models.CandidateHistory, error)
	MoveCandidate(ctx context.Context, move models.StageMove) error
	ReorderCandidates(ctx context.Context, stageID int, orderedIDs []int) error
	ReorderStages(ctx context.Context, recruitmentID int, orderedIDs []int) error
	AddCandidate(ctx context.Context, candidate *models.Candidate, at time.Time) error
	UpdateScheduleDate(ctx context.Context, candidateID int, date *time.Time, at time.Time) error
	CountStageCandidates(ctx context.Context, stageID int) (int64, error)
}

type vacancyChecker interface {
	IsFilled(ctx context.Context, recruitment models.Recruitment) (bool, int64, error)
}

type recruitmentRepository interface {
	SetClosed(ctx context.Context, id int, closed bool) error
	ToggleArchive(ctx context.Context, id int) (bool, error)
}

type skillZoneRepository interface {
	AddCandidate(ctx context.Context, candidateID int, zoneIDs []int, reason string) error
}

// PipelineEngine is the only way to change a candidate's stage or an ordering.
type PipelineEngine struct {
	graph        stageGraph
	vacancies    vacancyChecker
	gate         AuthorizationGate
	bus          EventBus.Bus
	recruitments recruitmentRepository
	skillZones   skillZoneRepository
	now          func() time.Time
}

func NewPipelineEngine(graph stageGraph, vacancies vacancyChecker, gate AuthorizationGate, bus EventBus.Bus,
	recruitments recruitmentRepository, skillZones skillZoneRepository) (*PipelineEngine, error) {

	if graph == nil {
		return nil, errors.New("stage graph is nil")
	}
	if vacancies == nil {
		return nil, errors.New("vacancy checker is nil")
	}
	if gate == nil {
		return nil, errors.New("authorization gate is nil")
	}
	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if recruitments == nil {
		return nil, errors.New("recruitment repository is nil")
	}
	if skillZones == nil {
		return nil, errors.New("skill zone repository is nil")
	}

	return &PipelineEngine{
		graph:        graph,
		vacancies:    vacancies,
		gate:         gate,
		bus:          bus,
		recruitments: recruitments,
		skillZones:   skillZones,
		now:          time.Now,
	}, nil
}

// MoveCandidate moves the candidate into the stage. Moving into the current stage is a NoChange outcome.
// Re-entering a stage restores the schedule date recorded on the latest visit.
func (e *PipelineEngine) MoveCandidate(ctx context.Context, input MoveCandidateInput) (Outcome, error) {
	outcome, err := e.moveCandidate(ctx, input)
	if err != nil {
		outcome = Outcome{CandidateID: input.CandidateID, Status: OutcomeFailed, Err: err}
	}
	metrics.CandidateMovesCounter.WithLabelValues(string(outcome.Status)).Inc()
	return outcome, err
}

func (e *PipelineEngine) moveCandidate(ctx context.Context, input MoveCandidateInput) (Outcome, error) {
	if err := validateInput(input); err != nil {
		return Outcome{}, err
	}

	candidate, err := e.graph.GetCandidate(ctx, input.CandidateID)
	if err != nil {
		return Outcome{}, err
	}

	stage, err := e.graph.GetStage(ctx, input.StageID)
	if err != nil {
		return Outcome{}, err
	}

	if candidate.RecruitmentID != stage.RecruitmentID {
		return Outcome{}, errors.Wrapf(models.ErrCrossRecruitment,
			"candidate %d is in recruitment %d, stage %d is in recruitment %d",
			candidate.ID, candidate.RecruitmentID, stage.ID, stage.RecruitmentID)
	}

	if err := e.authorizeStage(ctx, input.Actor, *stage); err != nil {
		return Outcome{}, err
	}

	if candidate.IsInStage(stage.ID) {
		return Outcome{CandidateID: candidate.ID, Status: OutcomeNoChange}, nil
	}

	var scheduleDate *time.Time
	visit, err := e.graph.LatestStageVisit(ctx, candidate.ID, stage.ID)
	if err != nil {
		return Outcome{}, err
	}
	if visit != nil {
		scheduleDate = visit.ScheduleDate
	}

	move := models.NewStageMove(*candidate, *stage, scheduleDate, e.now())
	if err := e.graph.MoveCandidate(ctx, move); err != nil {
		if errors.Is(err, models.ErrNoChange) {
			return Outcome{CandidateID: candidate.ID, Status: OutcomeNoChange}, nil
		}
		return Outcome{}, err
	}

	candidate.StageID = &move.ToStageID
	candidate.Hired, candidate.Canceled = move.Hired, move.Canceled
	candidate.StartOnboard = false
	candidate.ScheduleDate = move.ScheduleDate

	e.bus.Publish(events.CandidateMovedTopic, events.CandidateMoved{
		Candidate:   *candidate,
		Stage:       *stage,
		FromStageID: move.FromStageID,
		ActorID:     input.Actor.EmployeeID,
		At:          move.At,
	})

	outcome := Outcome{CandidateID: candidate.ID, Status: OutcomeSuccess}
	if stage.StageType == models.StageHired {
		e.checkVacancy(ctx, *stage, &outcome)
	}
	return outcome, nil
}

func (e *PipelineEngine) checkVacancy(ctx context.Context, stage models.Stage, outcome *Outcome) {
	recruitment := stage.Recruitment
	if recruitment == nil {
		var err error
		if recruitment, err = e.graph.GetRecruitment(ctx, stage.RecruitmentID); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("can't load recruitment %d for vacancy check: %v", stage.RecruitmentID, err)
			return
		}
	}

	filled, hired, err := e.vacancies.IsFilled(ctx, *recruitment)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("vacancy check failed for recruitment %d: %v", recruitment.ID, err)
		return
	}

	outcome.Hired = hired
	outcome.VacancyFilled = filled
	if filled {
		log.Infof("vacancy of recruitment %d filled: %d hired of %d", recruitment.ID, hired, recruitment.Vacancy)
		e.bus.Publish(events.VacancyFilledTopic, events.VacancyFilled{Recruitment: *recruitment, Hired: hired})
	}
}

// BulkMove moves each candidate independently. Failures are reported per candidate.
func (e *PipelineEngine) BulkMove(ctx context.Context, input BulkMoveInput) ([]Outcome, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(input.CandidateIDs))
	for _, candidateID := range input.CandidateIDs {
		outcome, err := e.MoveCandidate(ctx, MoveCandidateInput{
			CandidateID: candidateID,
			StageID:     input.StageID,
			Actor:       input.Actor,
		})
		if err != nil {
			log.Warnf("bulk move of candidate %d to stage %d failed: %v", candidateID, input.StageID, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// PlaceInStage moves the candidates that are elsewhere into the stage, then orders the stage
// by the given list. Nothing moves if any candidate belongs to another recruitment.
func (e *PipelineEngine) PlaceInStage(ctx context.Context, input PlaceInStageInput) ([]Outcome, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	stage, err := e.graph.GetStage(ctx, input.StageID)
	if err != nil {
		return nil, err
	}
	if err := e.authorizeStage(ctx, input.Actor, *stage); err != nil {
		return nil, err
	}

	for _, candidateID := range input.CandidateIDs {
		candidate, err := e.graph.GetCandidate(ctx, candidateID)
		if err != nil {
			return nil, err
		}
		if candidate.RecruitmentID != stage.RecruitmentID {
			return nil, errors.Wrapf(models.ErrCrossRecruitment, "candidate %d", candidateID)
		}
	}

	outcomes := make([]Outcome, 0, len(input.CandidateIDs))
	for _, candidateID := range input.CandidateIDs {
		outcome, err := e.MoveCandidate(ctx, MoveCandidateInput{
			CandidateID: candidateID,
			StageID:     stage.ID,
			Actor:       input.Actor,
		})
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
	}

	start := time.Now()
	defer func() {
		metrics.ReorderDuration.WithLabelValues("stage").Observe(time.Since(start).Seconds())
	}()
	return outcomes, e.graph.ReorderCandidates(ctx, stage.ID, input.CandidateIDs)
}

// ReorderWithinStage renumbers the stage's candidates from 0 in the given order.
func (e *PipelineEngine) ReorderWithinStage(ctx context.Context, input ReorderCandidatesInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	stage, err := e.graph.GetStage(ctx, input.StageID)
	if err != nil {
		return err
	}
	if err := e.authorizeStage(ctx, input.Actor, *stage); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		metrics.ReorderDuration.WithLabelValues("stage").Observe(time.Since(start).Seconds())
	}()
	return e.graph.ReorderCandidates(ctx, stage.ID, input.CandidateIDs)
}

// ReorderStages renumbers the recruitment's stages from 0 in the given order.
func (e *PipelineEngine) ReorderStages(ctx context.Context, input ReorderStagesInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	recruitment, err := e.authorizedRecruitment(ctx, input.RecruitmentID, input.Actor)
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		metrics.ReorderDuration.WithLabelValues("recruitment").Observe(time.Since(start).Seconds())
	}()
	return e.graph.ReorderStages(ctx, recruitment.ID, input.StageIDs)
}

// UpdateScheduleDate changes the candidate's schedule date within the current stage.
func (e *PipelineEngine) UpdateScheduleDate(ctx context.Context, input ScheduleDateInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	candidate, err := e.graph.GetCandidate(ctx, input.CandidateID)
	if err != nil {
		return err
	}

	if err := e.authorizeCandidate(ctx, input.Actor, *candidate); err != nil {
		return err
	}

	return e.graph.UpdateScheduleDate(ctx, candidate.ID, input.ScheduleDate, e.now())
}

// AddCandidate creates a candidate in the recruitment's landing stage.
func (e *PipelineEngine) AddCandidate(ctx context.Context, input AddCandidateInput) (*models.Candidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	recruitment, err := e.authorizedRecruitment(ctx, input.RecruitmentID, input.Actor)
	if err != nil {
		return nil, err
	}

	candidate := models.NewCandidate(recruitment.ID, input.Contact)
	candidate.ResumeID = input.ResumeID
	if err := e.graph.AddCandidate(ctx, candidate, e.now()); err != nil {
		return nil, err
	}
	return candidate, nil
}

// AddToSkillZones links the candidate to skill zones. Existing links are left alone.
func (e *PipelineEngine) AddToSkillZones(ctx context.Context, input SkillZoneInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	candidate, err := e.graph.GetCandidate(ctx, input.CandidateID)
	if err != nil {
		return err
	}
	if _, err := e.authorizedRecruitment(ctx, candidate.RecruitmentID, input.Actor); err != nil {
		return err
	}

	return e.skillZones.AddCandidate(ctx, candidate.ID, input.ZoneIDs, input.Reason)
}

func (e *PipelineEngine) CloseRecruitment(ctx context.Context, input RecruitmentInput) error {
	return e.setClosed(ctx, input, true)
}

func (e *PipelineEngine) ReopenRecruitment(ctx context.Context, input RecruitmentInput) error {
	return e.setClosed(ctx, input, false)
}

func (e *PipelineEngine) setClosed(ctx context.Context, input RecruitmentInput, closed bool) error {
	if err := validateInput(input); err != nil {
		return err
	}
	if _, err := e.authorizedRecruitment(ctx, input.RecruitmentID, input.Actor); err != nil {
		return err
	}
	return e.recruitments.SetClosed(ctx, input.RecruitmentID, closed)
}

// ToggleArchive flips whether the recruitment is active and returns the new state.
func (e *PipelineEngine) ToggleArchive(ctx context.Context, input RecruitmentInput) (bool, error) {
	if err := validateInput(input); err != nil {
		return false, err
	}
	if _, err := e.authorizedRecruitment(ctx, input.RecruitmentID, input.Actor); err != nil {
		return false, err
	}
	return e.recruitments.ToggleArchive(ctx, input.RecruitmentID)
}

// StageBadgeCount is the number of active candidates shown on the stage header.
func (e *PipelineEngine) StageBadgeCount(ctx context.Context, stageID int) (int64, error) {
	return e.graph.CountStageCandidates(ctx, stageID)
}

func (e *PipelineEngine) authorizeStage(ctx context.Context, actor models.Actor, stage models.Stage) error {
	if e.gate.CanManageStage(ctx, actor, stage) {
		return nil
	}
	log.Warnf("employee %d is not allowed to manage stage %d", actor.EmployeeID, stage.ID)
	return errors.Wrapf(models.ErrForbidden, "stage %d", stage.ID)
}

func (e *PipelineEngine) authorizeCandidate(ctx context.Context, actor models.Actor, candidate models.Candidate) error {
	if candidate.StageID == nil {
		_, err := e.authorizedRecruitment(ctx, candidate.RecruitmentID, actor)
		return err
	}

	stage, err := e.graph.GetStage(ctx, *candidate.StageID)
	if errors.Is(err, models.ErrNotFound) {
		// archived stage
		_, err = e.authorizedRecruitment(ctx, candidate.RecruitmentID, actor)
		return err
	}
	if err != nil {
		return err
	}
	return e.authorizeStage(ctx, actor, *stage)
}

func (e *PipelineEngine) authorizedRecruitment(ctx context.Context, recruitmentID int, actor models.Actor) (*models.Recruitment, error) {
	recruitment, err := e.graph.GetRecruitment(ctx, recruitmentID)
	if err != nil {
		return nil, err
	}

	if !e.gate.CanManageRecruitment(ctx, actor, *recruitment) {
		log.Warnf("employee %d is not allowed to manage recruitment %d", actor.EmployeeID, recruitmentID)
		return nil, errors.Wrapf(models.ErrForbidden, "recruitment %d", recruitmentID)
	}
	return recruitment, nil
}
