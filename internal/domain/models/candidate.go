package models

import "time"

type Candidate struct {
	ID            int
	RecruitmentID int  `gorm:"index"`
	StageID       *int `gorm:"index:idx_candidate_stage_sequence,priority:1"`
	ResumeID      *int
	Name          string
	Email         string
	Phone         string
	Dob           string
	Zip           string
	Address       string
	Country       string
	State         string
	Sequence      int `gorm:"index:idx_candidate_stage_sequence,priority:2"`
	Hired         bool
	Canceled      bool
	StartOnboard  bool
	ScheduleDate  *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewCandidate(recruitmentID int, contact Contact) *Candidate {
	return &Candidate{
		RecruitmentID: recruitmentID,
		Name:          contact.FullName,
		Email:         contact.Email,
		Phone:         contact.Phone,
		Dob:           contact.Dob,
		Zip:           contact.Zip,
		Address:       contact.Address,
		Country:       contact.Country,
		State:         contact.State,
		IsActive:      true,
	}
}

func (c Candidate) IsInStage(stageID int) bool {
	return c.StageID != nil && *c.StageID == stageID
}

type HistoryKind string

const (
	HistoryStageEntered    HistoryKind = "stage_entered"
	HistoryScheduleUpdated HistoryKind = "schedule_updated"
)

// CandidateHistory is append-only.
type CandidateHistory struct {
	ID           int
	CandidateID  int `gorm:"index:idx_history_candidate_stage,priority:1"`
	StageID      int `gorm:"index:idx_history_candidate_stage,priority:2"`
	Kind         HistoryKind
	ScheduleDate *time.Time
	EnteredAt    time.Time
}

// StageMove is a resolved stage transition ready to be persisted.
type StageMove struct {
	CandidateID  int
	FromStageID  *int
	ToStageID    int
	Hired        bool
	Canceled     bool
	ScheduleDate *time.Time
	At           time.Time
}

func NewStageMove(candidate Candidate, stage Stage, scheduleDate *time.Time, at time.Time) StageMove {
	return StageMove{
		CandidateID:  candidate.ID,
		FromStageID:  candidate.StageID,
		ToStageID:    stage.ID,
		Hired:        stage.StageType == StageHired,
		Canceled:     stage.StageType == StageCancelled,
		ScheduleDate: scheduleDate,
		At:           at,
	}
}
