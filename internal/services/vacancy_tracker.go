package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
)

type hiredCounter interface {
	CountHired(ctx context.Context, recruitmentID int) (int64, error)
}

// VacancyTracker decides whether a recruitment has hired enough candidates.
// It never changes the recruitment.
type VacancyTracker struct {
	hired hiredCounter
}

func NewVacancyTracker(hired hiredCounter) *VacancyTracker {
	return &VacancyTracker{hired: hired}
}

func (t *VacancyTracker) IsFilled(ctx context.Context, recruitment models.Recruitment) (bool, int64, error) {
	count, err := t.hired.CountHired(ctx, recruitment.ID)
	if err != nil {
		return false, 0, err
	}
	return recruitment.IsVacancyFilled(count), count, nil
}
