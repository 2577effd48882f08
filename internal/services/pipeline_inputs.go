package services

import (
	"github.com/go-playground/validator/v10"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/pkg/errors"
	"time"
)

var validate = validator.New()

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return errors.Wrap(models.ErrInvalidInput, err.Error())
	}
	return nil
}

type MoveCandidateInput struct {
	CandidateID int `validate:"gt=0"`
	StageID     int `validate:"gt=0"`
	Actor       models.Actor
}

type BulkMoveInput struct {
	CandidateIDs []int `validate:"required,min=1,dive,gt=0"`
	StageID      int   `validate:"gt=0"`
	Actor        models.Actor
}

// PlaceInStageInput moves candidates into a stage and orders the stage by CandidateIDs.
type PlaceInStageInput struct {
	StageID      int   `validate:"gt=0"`
	CandidateIDs []int `validate:"required,min=1,unique,dive,gt=0"`
	Actor        models.Actor
}

type ReorderCandidatesInput struct {
	StageID      int   `validate:"gt=0"`
	CandidateIDs []int `validate:"unique,dive,gt=0"`
	Actor        models.Actor
}

type ReorderStagesInput struct {
	RecruitmentID int   `validate:"gt=0"`
	StageIDs      []int `validate:"unique,dive,gt=0"`
	Actor         models.Actor
}

type ScheduleDateInput struct {
	CandidateID  int `validate:"gt=0"`
	ScheduleDate *time.Time
	Actor        models.Actor
}

type AddCandidateInput struct {
	RecruitmentID int `validate:"gt=0"`
	Contact       models.Contact
	ResumeID      *int
	Actor         models.Actor
}

type SkillZoneInput struct {
	CandidateID int    `validate:"gt=0"`
	ZoneIDs     []int  `validate:"required,min=1,unique,dive,gt=0"`
	Reason      string `validate:"max=255"`
	Actor       models.Actor
}

type RecruitmentInput struct {
	RecruitmentID int `validate:"gt=0"`
	Actor         models.Actor
}

type OutcomeStatus string

const (
	OutcomeSuccess  OutcomeStatus = "success"
	OutcomeNoChange OutcomeStatus = "noChange"
	OutcomeFailed   OutcomeStatus = "failed"
)

// Outcome reports one candidate move. VacancyFilled is advisory and never blocks the move.
type Outcome struct {
	CandidateID   int
	Status        OutcomeStatus
	Err           error
	VacancyFilled bool
	Hired         int64
}
