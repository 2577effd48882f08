package repositories

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"time"
)

type SkillZones struct {
	db *gorm.DB
}

func NewSkillZonesRepository(db *gorm.DB) *SkillZones {
	return &SkillZones{db: db}
}

func (repo *SkillZones) Add(ctx context.Context, zone *models.SkillZone) error {
	return repo.db.WithContext(ctx).Create(zone).Error
}

func (repo *SkillZones) Get(ctx context.Context, id int) (*models.SkillZone, error) {
	var zone models.SkillZone
	if err := repo.db.WithContext(ctx).First(&zone, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "skill zone %d", id)
	}
	return &zone, nil
}

// AddCandidate links the candidate to every zone once. Existing links are kept as they are.
func (repo *SkillZones) AddCandidate(ctx context.Context, candidateID int, zoneIDs []int, reason string) error {
	if len(zoneIDs) == 0 {
		return nil
	}

	now := time.Now()
	links := make([]models.SkillZoneCandidate, 0, len(zoneIDs))
	for _, zoneID := range zoneIDs {
		links = append(links, models.SkillZoneCandidate{
			SkillZoneID: zoneID,
			CandidateID: candidateID,
			Reason:      reason,
			CreatedAt:   now,
		})
	}

	return repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

func (repo *SkillZones) GetCandidates(ctx context.Context, zoneID int) ([]models.SkillZoneCandidate, error) {
	var links []models.SkillZoneCandidate
	if err := repo.db.WithContext(ctx).
		Where("skill_zone_id = ?", zoneID).
		Order("candidate_id").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
