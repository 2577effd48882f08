package models

import "time"

type PipelineFilter struct {
	RecruitmentIDs []int
	Search         string
	IncludeClosed  bool
}

// PipelineSnapshot is a read-only copy of the pipeline for one filter.
type PipelineSnapshot struct {
	Filter       PipelineFilter
	Recruitments []Recruitment
	Stages       []Stage
	Candidates   []Candidate
	LoadedAt     time.Time
}

func (s *PipelineSnapshot) RecruitmentStages(recruitmentID int) []Stage {
	var stages []Stage
	for _, stage := range s.Stages {
		if stage.RecruitmentID == recruitmentID {
			stages = append(stages, stage)
		}
	}
	return stages
}

func (s *PipelineSnapshot) StageCandidates(stageID int) []Candidate {
	var candidates []Candidate
	for _, candidate := range s.Candidates {
		if candidate.IsInStage(stageID) {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func (s *PipelineSnapshot) BadgeCount(stageID int) int {
	return len(s.StageCandidates(stageID))
}

// Notification is a best-effort message for managers.
type Notification struct {
	ID         string
	Kind       string
	Message    string
	Recipients []Employee
	Payload    any
	CreatedAt  time.Time
}
