package repositories

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"strings"
	"time"
)

// StageGraph is the durable ordered structure of recruitments, stages and candidates.
// Every write to an ordering scope holds that scope's lock for the whole transaction.
type StageGraph struct {
	db    *gorm.DB
	locks *scopeLocks
}

func NewStageGraph(db *gorm.DB) *StageGraph {
	return &StageGraph{db: db, locks: &scopeLocks{}}
}

func (g *StageGraph) GetCandidate(ctx context.Context, id int) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := g.db.WithContext(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "candidate %d", id)
	}
	return &candidate, nil
}

func (g *StageGraph) GetStage(ctx context.Context, id int) (*models.Stage, error) {
	var stage models.Stage
	err := g.db.WithContext(ctx).
		Preload("Managers").
		Preload("Recruitment.Managers").
		First(&stage, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "stage %d", id)
	}
	return &stage, nil
}

func (g *StageGraph) GetRecruitment(ctx context.Context, id int) (*models.Recruitment, error) {
	var recruitment models.Recruitment
	err := g.db.WithContext(ctx).
		Preload("Managers").
		Preload("Skills").
		First(&recruitment, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "recruitment %d", id)
	}
	return &recruitment, nil
}

func (g *StageGraph) GetStages(ctx context.Context, recruitmentID int) ([]models.Stage, error) {
	var stages []models.Stage
	if err := g.db.WithContext(ctx).
		Where("recruitment_id = ?", recruitmentID).
		Order("sequence, id").
		Find(&stages).Error; err != nil {
		return nil, err
	}
	return stages, nil
}

func (g *StageGraph) GetStageCandidates(ctx context.Context, stageID int) ([]models.Candidate, error) {
	var candidates []models.Candidate
	if err := g.db.WithContext(ctx).
		Where("stage_id = ?", stageID).
		Order("sequence, id").
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (g *StageGraph) CountStageCandidates(ctx context.Context, stageID int) (int64, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("stage_id = ? AND is_active = ?", stageID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountHired counts active candidates sitting in a live hired stage of the recruitment.
func (g *StageGraph) CountHired(ctx context.Context, recruitmentID int) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Candidate{}).
		Joins("JOIN stages ON stages.id = candidates.stage_id").
		Where("candidates.recruitment_id = ? AND candidates.is_active = ?", recruitmentID, true).
		Where("stages.stage_type = ? AND stages.deleted_at IS NULL", models.StageHired).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LatestStageVisit returns the newest history entry of the candidate for the stage, or nil.
func (g *StageGraph) LatestStageVisit(ctx context.Context, candidateID int, stageID int) (*models.CandidateHistory, error) {
	var entry models.CandidateHistory
	err := g.db.WithContext(ctx).
		Where("candidate_id = ? AND stage_id = ?", candidateID, stageID).
		Order("entered_at DESC, id DESC").
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (g *StageGraph) GetHistory(ctx context.Context, candidateID int) ([]models.CandidateHistory, error) {
	var entries []models.CandidateHistory
	if err := g.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("entered_at, id").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// MoveCandidate places the candidate at the end of the target stage and appends a history entry.
// It returns models.ErrNoChange when the candidate is already in the stage.
func (g *StageGraph) MoveCandidate(ctx context.Context, move models.StageMove) error {
	unlock := g.locks.lock(stageScope(move.ToStageID))
	defer unlock()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage models.Stage
		if err := lockRow(tx, &stage, move.ToStageID); err != nil {
			return notFound(err, "stage %d", move.ToStageID)
		}

		next, err := nextCandidateSequence(tx, move.ToStageID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Candidate{}).
			Where("id = ? AND (stage_id IS NULL OR stage_id <> ?)", move.CandidateID, move.ToStageID).
			Updates(map[string]any{
				"stage_id":      move.ToStageID,
				"sequence":      next,
				"hired":         move.Hired,
				"canceled":      move.Canceled,
				"start_onboard": false,
				"schedule_date": move.ScheduleDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return unmovedCandidate(tx, move)
		}

		return tx.Create(&models.CandidateHistory{
			CandidateID:  move.CandidateID,
			StageID:      move.ToStageID,
			Kind:         models.HistoryStageEntered,
			ScheduleDate: move.ScheduleDate,
			EnteredAt:    move.At,
		}).Error
	})
}

func unmovedCandidate(tx *gorm.DB, move models.StageMove) error {
	var count int64
	if err := tx.Model(&models.Candidate{}).Where("id = ?", move.CandidateID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.Wrapf(models.ErrNotFound, "candidate %d", move.CandidateID)
	}
	return errors.Wrapf(models.ErrNoChange, "candidate %d, stage %d", move.CandidateID, move.ToStageID)
}

// AddCandidate creates the candidate in the recruitment's landing stage: the initial stage
// if there is one, otherwise the first stage. Without stages the candidate stays unplaced.
func (g *StageGraph) AddCandidate(ctx context.Context, candidate *models.Candidate, at time.Time) error {
	landing, err := g.landingStage(ctx, candidate.RecruitmentID)
	if err != nil {
		return err
	}

	if landing == nil {
		candidate.StageID = nil
		return g.db.WithContext(ctx).Create(candidate).Error
	}

	unlock := g.locks.lock(stageScope(landing.ID))
	defer unlock()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage models.Stage
		if err := lockRow(tx, &stage, landing.ID); err != nil {
			return notFound(err, "stage %d", landing.ID)
		}

		next, err := nextCandidateSequence(tx, landing.ID)
		if err != nil {
			return err
		}

		candidate.StageID = &landing.ID
		candidate.Sequence = next
		if err := tx.Create(candidate).Error; err != nil {
			return err
		}

		return tx.Create(&models.CandidateHistory{
			CandidateID:  candidate.ID,
			StageID:      landing.ID,
			Kind:         models.HistoryStageEntered,
			ScheduleDate: candidate.ScheduleDate,
			EnteredAt:    at,
		}).Error
	})
}

func (g *StageGraph) landingStage(ctx context.Context, recruitmentID int) (*models.Stage, error) {
	var stage models.Stage
	err := g.db.WithContext(ctx).
		Where("recruitment_id = ?", recruitmentID).
		Order(initialStageFirst).
		Order("sequence, id").
		First(&stage).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stage, nil
}

const initialStageFirst = "CASE WHEN stage_type = 'initial' THEN 0 ELSE 1 END"

// UpdateScheduleDate sets the candidate's schedule date and records it against the current stage.
func (g *StageGraph) UpdateScheduleDate(ctx context.Context, candidateID int, date *time.Time, at time.Time) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate models.Candidate
		if err := tx.First(&candidate, "id = ?", candidateID).Error; err != nil {
			return notFound(err, "candidate %d", candidateID)
		}

		if err := tx.Model(&models.Candidate{}).Where("id = ?", candidateID).
			Update("schedule_date", date).Error; err != nil {
			return err
		}

		if candidate.StageID == nil {
			return nil
		}

		return tx.Create(&models.CandidateHistory{
			CandidateID:  candidateID,
			StageID:      *candidate.StageID,
			Kind:         models.HistoryScheduleUpdated,
			ScheduleDate: date,
			EnteredAt:    at,
		}).Error
	})
}

// ReorderCandidates gives the listed candidates sequences 0..n-1 in list order. Unlisted
// candidates keep their relative order but are shifted after the listed ones, so their
// sequence values can change.
func (g *StageGraph) ReorderCandidates(ctx context.Context, stageID int, orderedIDs []int) error {
	unlock := g.locks.lock(stageScope(stageID))
	defer unlock()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stage models.Stage
		if err := lockRow(tx, &stage, stageID); err != nil {
			return notFound(err, "stage %d", stageID)
		}

		var members []models.Candidate
		if err := tx.Select("id", "sequence").
			Where("stage_id = ?", stageID).
			Order("sequence, id").
			Find(&members).Error; err != nil {
			return err
		}

		current := make([]orderedMember, 0, len(members))
		for _, member := range members {
			current = append(current, orderedMember{id: member.ID, sequence: member.Sequence})
		}

		return applyOrder(tx, &models.Candidate{}, current, orderedIDs)
	})
}

// ReorderStages is ReorderCandidates for the stages of a recruitment.
func (g *StageGraph) ReorderStages(ctx context.Context, recruitmentID int, orderedIDs []int) error {
	unlock := g.locks.lock(recruitmentScope(recruitmentID))
	defer unlock()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recruitment models.Recruitment
		if err := lockRow(tx, &recruitment, recruitmentID); err != nil {
			return notFound(err, "recruitment %d", recruitmentID)
		}

		var stages []models.Stage
		if err := tx.Select("id", "sequence").
			Where("recruitment_id = ?", recruitmentID).
			Order("sequence, id").
			Find(&stages).Error; err != nil {
			return err
		}

		current := make([]orderedMember, 0, len(stages))
		for _, stage := range stages {
			current = append(current, orderedMember{id: stage.ID, sequence: stage.Sequence})
		}

		return applyOrder(tx, &models.Stage{}, current, orderedIDs)
	})
}

type orderedMember struct {
	id       int
	sequence int
}

func applyOrder(tx *gorm.DB, model any, current []orderedMember, orderedIDs []int) error {
	order, err := mergeOrder(current, orderedIDs)
	if err != nil {
		return err
	}

	for sequence, member := range order {
		if member.sequence == sequence {
			continue
		}
		if err := tx.Model(model).Where("id = ?", member.id).
			Update("sequence", sequence).Error; err != nil {
			return err
		}
	}
	return nil
}

// mergeOrder puts listed ids first in list order, then the unlisted members in their current order.
func mergeOrder(current []orderedMember, orderedIDs []int) ([]orderedMember, error) {
	byID := make(map[int]orderedMember, len(current))
	for _, member := range current {
		byID[member.id] = member
	}

	listed := make(map[int]bool, len(orderedIDs))
	order := make([]orderedMember, 0, len(current))
	for _, id := range orderedIDs {
		member, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(models.ErrNotInScope, "id %d", id)
		}
		if listed[id] {
			return nil, errors.Wrapf(models.ErrInvalidInput, "duplicate id %d", id)
		}
		listed[id] = true
		order = append(order, member)
	}

	for _, member := range current {
		if !listed[member.id] {
			order = append(order, member)
		}
	}
	return order, nil
}

func nextCandidateSequence(tx *gorm.DB, stageID int) (int, error) {
	var next int
	err := tx.Model(&models.Candidate{}).
		Select("COALESCE(MAX(sequence), -1) + 1").
		Where("stage_id = ?", stageID).
		Scan(&next).Error
	return next, err
}

// LoadSnapshot reads every open recruitment matching the filter with its stages and candidates.
func (g *StageGraph) LoadSnapshot(ctx context.Context, filter models.PipelineFilter) (*models.PipelineSnapshot, error) {
	db := g.db.WithContext(ctx)

	recruitmentQuery := db.Where("is_active = ?", true)
	if !filter.IncludeClosed {
		recruitmentQuery = recruitmentQuery.Where("closed = ?", false)
	}
	if len(filter.RecruitmentIDs) > 0 {
		recruitmentQuery = recruitmentQuery.Where("id IN ?", filter.RecruitmentIDs)
	}

	var recruitments []models.Recruitment
	if err := recruitmentQuery.Preload("Managers").Order("id").Find(&recruitments).Error; err != nil {
		return nil, err
	}

	snapshot := &models.PipelineSnapshot{Filter: filter, Recruitments: recruitments, LoadedAt: time.Now()}
	if len(recruitments) == 0 {
		return snapshot, nil
	}

	recruitmentIDs := make([]int, 0, len(recruitments))
	for _, recruitment := range recruitments {
		recruitmentIDs = append(recruitmentIDs, recruitment.ID)
	}

	if err := db.Where("recruitment_id IN ?", recruitmentIDs).
		Order("recruitment_id, sequence, id").
		Find(&snapshot.Stages).Error; err != nil {
		return nil, err
	}

	candidateQuery := db.Where("recruitment_id IN ? AND is_active = ?", recruitmentIDs, true)
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		candidateQuery = candidateQuery.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if err := candidateQuery.Order("stage_id, sequence, id").Find(&snapshot.Candidates).Error; err != nil {
		return nil, err
	}

	return snapshot, nil
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(models.ErrNotFound, format, args...)
	}
	return err
}

// AddStage appends the stage after the recruitment's last stage.
func (g *StageGraph) AddStage(ctx context.Context, stage *models.Stage) error {
	unlock := g.locks.lock(recruitmentScope(stage.RecruitmentID))
	defer unlock()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recruitment models.Recruitment
		if err := lockRow(tx, &recruitment, stage.RecruitmentID); err != nil {
			return notFound(err, "recruitment %d", stage.RecruitmentID)
		}

		var next int
		if err := tx.Model(&models.Stage{}).
			Select("COALESCE(MAX(sequence), -1) + 1").
			Where("recruitment_id = ?", stage.RecruitmentID).
			Scan(&next).Error; err != nil {
			return err
		}

		stage.Sequence = next
		return tx.Create(stage).Error
	})
}

// ArchiveStage soft-deletes the stage. Candidates keep referencing it.
func (g *StageGraph) ArchiveStage(ctx context.Context, stageID int) error {
	res := g.db.WithContext(ctx).Delete(&models.Stage{}, "id = ?", stageID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "stage %d", stageID)
	}
	return nil
}
