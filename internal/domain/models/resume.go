package models

import "time"

type Resume struct {
	ID            int
	RecruitmentID int `gorm:"index"`
	FileName      string
	Content       []byte
	Claimed       bool
	CreatedAt     time.Time
}

// Contact holds the fields guessed from a résumé layout. Unmatched fields stay empty.
type Contact struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	Country  string `json:"country"`
	State    string `json:"state"`
	Phone    string `json:"phone_number"`
	Dob      string `json:"dob"`
	Email    string `json:"email_id"`
	Zip      string `json:"zip"`
}

type ResumeDetails struct {
	Education      []any  `json:"education" gorm:"serializer:json"`
	Skills         []any  `json:"skills" gorm:"serializer:json"`
	Experience     []any  `json:"experience" gorm:"serializer:json"`
	Certifications []any  `json:"certifications" gorm:"serializer:json"`
	Summary        string `json:"summary"`
}

func EmptyResumeDetails() ResumeDetails {
	return ResumeDetails{Education: []any{}, Skills: []any{}, Experience: []any{}, Certifications: []any{}}
}

type ParsedResumeDetails struct {
	CandidateID   int `gorm:"primaryKey;autoIncrement:false"`
	ResumeDetails `gorm:"embedded"`
	CreatedAt     time.Time
}

// RankedResume is one row of a recruitment's matching résumés.
type RankedResume struct {
	Resume       Resume
	MatchCount   int
	ScannedImage bool
}
