package repositories

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Recruitments struct {
	db *gorm.DB
}

func NewRecruitmentsRepository(db *gorm.DB) *Recruitments {
	return &Recruitments{db: db}
}

func (repo *Recruitments) Add(ctx context.Context, recruitment *models.Recruitment) error {
	return repo.db.WithContext(ctx).Create(recruitment).Error
}

func (repo *Recruitments) GetOpen(ctx context.Context) ([]models.Recruitment, error) {
	var recruitments []models.Recruitment
	if err := repo.db.WithContext(ctx).
		Preload("Managers").
		Where("is_active = ? AND closed = ?", true, false).
		Order("id").
		Find(&recruitments).Error; err != nil {
		return nil, err
	}
	return recruitments, nil
}

func (repo *Recruitments) SetClosed(ctx context.Context, id int, closed bool) error {
	res := repo.db.WithContext(ctx).Model(&models.Recruitment{}).Where("id = ?", id).
		Update("closed", closed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(models.ErrNotFound, "recruitment %d", id)
	}
	return nil
}

// ToggleArchive flips is_active and returns the new value.
func (repo *Recruitments) ToggleArchive(ctx context.Context, id int) (bool, error) {
	var isActive bool
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recruitment models.Recruitment
		if err := tx.First(&recruitment, "id = ?", id).Error; err != nil {
			return notFound(err, "recruitment %d", id)
		}
		isActive = !recruitment.IsActive
		return tx.Model(&models.Recruitment{}).Where("id = ?", id).Update("is_active", isActive).Error
	})
	return isActive, err
}

// SetSkills replaces the required skills, creating unknown titles.
func (repo *Recruitments) SetSkills(ctx context.Context, id int, titles []string) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recruitment := models.Recruitment{ID: id}
		skills := make([]models.Skill, 0, len(titles))

		for _, title := range titles {
			skill := models.Skill{Title: title}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&skill).Error; err != nil {
				return err
			}
			if err := tx.First(&skill, "title = ?", title).Error; err != nil {
				return err
			}
			skills = append(skills, skill)
		}

		return tx.Model(&recruitment).Association("Skills").Replace(skills)
	})
}

func (repo *Recruitments) SetManagers(ctx context.Context, id int, managers []models.Employee) error {
	recruitment := models.Recruitment{ID: id}
	return repo.db.WithContext(ctx).Model(&recruitment).Association("Managers").Replace(managers)
}

func (repo *Recruitments) SetStageManagers(ctx context.Context, stageID int, managers []models.Employee) error {
	stage := models.Stage{ID: stageID}
	return repo.db.WithContext(ctx).Model(&stage).Association("Managers").Replace(managers)
}

func (repo *Recruitments) AddEmployee(ctx context.Context, employee *models.Employee) error {
	return repo.db.WithContext(ctx).Create(employee).Error
}
