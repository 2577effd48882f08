package repositories

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Resumes struct {
	db *gorm.DB
}

func NewResumesRepository(db *gorm.DB) *Resumes {
	return &Resumes{db: db}
}

func (repo *Resumes) Add(ctx context.Context, resume *models.Resume) error {
	return repo.db.WithContext(ctx).Create(resume).Error
}

func (repo *Resumes) Get(ctx context.Context, id int) (*models.Resume, error) {
	var resume models.Resume
	if err := repo.db.WithContext(ctx).First(&resume, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "resume %d", id)
	}
	return &resume, nil
}

func (repo *Resumes) GetByRecruitment(ctx context.Context, recruitmentID int) ([]models.Resume, error) {
	var resumes []models.Resume
	if err := repo.db.WithContext(ctx).
		Where("recruitment_id = ?", recruitmentID).
		Order("id").
		Find(&resumes).Error; err != nil {
		return nil, err
	}
	return resumes, nil
}

func (repo *Resumes) MarkClaimed(ctx context.Context, id int) error {
	res := repo.db.WithContext(ctx).Model(&models.Resume{}).Where("id = ?", id).Update("claimed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "resume %d", id)
	}
	return nil
}

// SaveDetails stores the structured details of a candidate, replacing earlier ones.
func (repo *Resumes) SaveDetails(ctx context.Context, details *models.ParsedResumeDetails) error {
	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(details).Error
}

func (repo *Resumes) GetDetails(ctx context.Context, candidateID int) (*models.ParsedResumeDetails, error) {
	var details models.ParsedResumeDetails
	err := repo.db.WithContext(ctx).First(&details, "candidate_id = ?", candidateID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &details, nil
}
