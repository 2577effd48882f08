package events

import (
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"time"
)

var CandidateMovedTopic = "CandidateMovedEvent"

type CandidateMoved struct {
	Candidate   models.Candidate
	Stage       models.Stage
	FromStageID *int
	ActorID     int
	At          time.Time
}
