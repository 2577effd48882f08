package models

import (
	"errors"
	"gorm.io/gorm"
	"time"
)

type StageType string

const (
	StageInitial   StageType = "initial"
	StageNormal    StageType = "normal"
	StageHired     StageType = "hired"
	StageCancelled StageType = "cancelled"
)

func ToStageType(s string) (StageType, error) {
	switch s {
	case string(StageInitial):
		return StageInitial, nil
	case string(StageNormal):
		return StageNormal, nil
	case string(StageHired):
		return StageHired, nil
	case string(StageCancelled):
		return StageCancelled, nil
	default:
		return "", errors.New("invalid stage type")
	}
}

type Stage struct {
	ID            int
	RecruitmentID int `gorm:"index:idx_stage_recruitment_sequence,priority:1"`
	Recruitment   *Recruitment
	Title         string
	Sequence      int        `gorm:"index:idx_stage_recruitment_sequence,priority:2"`
	StageType     StageType  `gorm:"default:normal"`
	Managers      []Employee `gorm:"many2many:stage_managers"`
	CreatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func NewStage(recruitmentID int, title string, stageType StageType, sequence int) *Stage {
	return &Stage{RecruitmentID: recruitmentID, Title: title, StageType: stageType, Sequence: sequence}
}

func (s Stage) IsManagedBy(employeeID int) bool {
	return containsEmployee(s.Managers, employeeID)
}
