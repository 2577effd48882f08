package models

import "time"

type SkillZone struct {
	ID          int
	Title       string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// SkillZoneCandidate associates candidates with skill zones, at most once per pair.
type SkillZoneCandidate struct {
	SkillZoneID int `gorm:"primaryKey;autoIncrement:false"`
	CandidateID int `gorm:"primaryKey;autoIncrement:false"`
	Reason      string
	CreatedAt   time.Time
}
