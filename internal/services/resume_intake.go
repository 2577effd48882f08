package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/logger"
	"github.com/maxaizer/recruitment-funnel/internal/metrics"
	"github.com/maxaizer/recruitment-funnel/internal/resume"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"time"
)

type resumeRepository interface {
	Get(ctx context.Context, id int) (*models.Resume, error)
	GetByRecruitment(ctx context.Context, recruitmentID int) ([]models.Resume, error)
	MarkClaimed(ctx context.Context, id int) error
	SaveDetails(ctx context.Context, details *models.ParsedResumeDetails) error
}

// DetailsParser extracts structured sections from résumé text.
type DetailsParser interface {
	Parse(ctx context.Context, text string) (*models.ResumeDetails, error)
}

type candidateCreator interface {
	AddCandidate(ctx context.Context, input AddCandidateInput) (*models.Candidate, error)
}

type recruitmentReader interface {
	GetRecruitment(ctx context.Context, id int) (*models.Recruitment, error)
}

type resumeRanker interface {
	Rank(ctx context.Context, skills []string, resumes []models.Resume) ([]models.RankedResume, error)
}

// CompletedResume is the autofill result plus structured details when the parser succeeded.
type CompletedResume struct {
	Contact models.Contact        `json:"contact"`
	Details *models.ResumeDetails `json:"details,omitempty"`
}

type CreateFromResumeInput struct {
	ResumeID      int `validate:"gt=0"`
	RecruitmentID int `validate:"gt=0"`
	Actor         models.Actor
}

// ResumeIntake turns uploaded résumés into candidate drafts and rankings.
// Extraction and parsing problems degrade the result and never fail the caller.
type ResumeIntake struct {
	resumes      resumeRepository
	recruitments recruitmentReader
	candidates   candidateCreator
	ranker       resumeRanker
	parser       DetailsParser
}

// NewResumeIntake builds the intake. parser may be nil when no language model is configured.
func NewResumeIntake(resumes resumeRepository, recruitments recruitmentReader, candidates candidateCreator,
	ranker resumeRanker, parser DetailsParser) (*ResumeIntake, error) {

	if resumes == nil {
		return nil, errors.New("resume repository is nil")
	}
	if recruitments == nil {
		return nil, errors.New("recruitment reader is nil")
	}
	if candidates == nil {
		return nil, errors.New("candidate creator is nil")
	}
	if ranker == nil {
		return nil, errors.New("ranker is nil")
	}

	return &ResumeIntake{
		resumes:      resumes,
		recruitments: recruitments,
		candidates:   candidates,
		ranker:       ranker,
		parser:       parser,
	}, nil
}

// AutofillDocument guesses contact fields from a PDF. Unreadable input yields an empty contact.
func AutofillDocument(content []byte) models.Contact {
	doc := resume.Open(content)
	if err := doc.Err(); err != nil {
		log.Warnf("résumé is not a readable pdf: %v", err)
	}
	return resume.ExtractContact(doc.Spans())
}

func (i *ResumeIntake) Autofill(ctx context.Context, resumeID int) (models.Contact, error) {
	stored, err := i.resumes.Get(ctx, resumeID)
	if err != nil {
		return models.Contact{}, err
	}
	return AutofillDocument(stored.Content), nil
}

// Complete autofills the document and adds structured details when the parser can provide them.
func (i *ResumeIntake) Complete(ctx context.Context, content []byte) CompletedResume {
	doc := resume.Open(content)
	return CompletedResume{
		Contact: resume.ExtractContact(doc.Spans()),
		Details: i.parse(ctx, doc.Text()),
	}
}

// CreateCandidateFromResume creates a candidate from the résumé, claims the résumé and stores
// parsed details when available. Once the candidate exists, claim and details failures are
// only logged so a retry does not create a second candidate.
func (i *ResumeIntake) CreateCandidateFromResume(ctx context.Context, input CreateFromResumeInput) (*models.Candidate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	stored, err := i.resumes.Get(ctx, input.ResumeID)
	if err != nil {
		return nil, err
	}
	if stored.RecruitmentID != input.RecruitmentID {
		return nil, errors.Wrapf(models.ErrCrossRecruitment, "resume %d", stored.ID)
	}

	completed := i.Complete(ctx, stored.Content)

	candidate, err := i.candidates.AddCandidate(ctx, AddCandidateInput{
		RecruitmentID: input.RecruitmentID,
		Contact:       completed.Contact,
		ResumeID:      &stored.ID,
		Actor:         input.Actor,
	})
	if err != nil {
		return nil, err
	}

	if err := i.resumes.MarkClaimed(ctx, stored.ID); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("can't mark resume %d claimed by candidate %d: %v", stored.ID, candidate.ID, err)
	}

	if completed.Details != nil {
		details := &models.ParsedResumeDetails{CandidateID: candidate.ID, ResumeDetails: *completed.Details}
		if err := i.resumes.SaveDetails(ctx, details); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("can't save parsed details of candidate %d: %v", candidate.ID, err)
		}
	}

	return candidate, nil
}

// Rank orders the recruitment's résumés by matched skills, unclaimed ones first.
func (i *ResumeIntake) Rank(ctx context.Context, recruitmentID int) ([]models.RankedResume, error) {
	recruitment, err := i.recruitments.GetRecruitment(ctx, recruitmentID)
	if err != nil {
		return nil, err
	}

	resumes, err := i.resumes.GetByRecruitment(ctx, recruitmentID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranked, err := i.ranker.Rank(ctx, recruitment.SkillTitles(), resumes)
	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	return ranked, err
}

func (i *ResumeIntake) parse(ctx context.Context, text string) *models.ResumeDetails {
	if i.parser == nil {
		metrics.ResumeParseCounter.WithLabelValues("skipped").Inc()
		return nil
	}
	if text == "" {
		metrics.ResumeParseCounter.WithLabelValues("skipped").Inc()
		return nil
	}

	details, err := i.parser.Parse(ctx, text)
	if err != nil {
		metrics.ResumeParseCounter.WithLabelValues("failed").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Errorf("structured résumé parse failed: %v", err)
		return nil
	}

	metrics.ResumeParseCounter.WithLabelValues("success").Inc()
	return details
}
