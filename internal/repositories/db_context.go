package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMysql    = "mysql"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(driver string, connectionString string) (*DbContext, error) {

	dialector, err := openDialector(driver, connectionString)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	if db.Dialector.Name() == DriverSqlite {
		// sqlite allows one writer; a single connection turns lock upgrades into waits
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &DbContext{DB: db}, nil
}

func openDialector(driver string, connectionString string) (gorm.Dialector, error) {
	switch driver {
	case DriverSqlite, "":
		return sqlite.Open(connectionString), nil
	case DriverPostgres:
		return postgres.Open(connectionString), nil
	case DriverMysql:
		return mysql.Open(connectionString), nil
	default:
		return nil, fmt.Errorf("unsupported db driver: %v", driver)
	}
}

func (c *DbContext) Migrate() error {
	entities := []struct {
		name  string
		model any
	}{
		{"Employee", models.Employee{}},
		{"Skill", models.Skill{}},
		{"Recruitment", models.Recruitment{}},
		{"Stage", models.Stage{}},
		{"Candidate", models.Candidate{}},
		{"CandidateHistory", models.CandidateHistory{}},
		{"Resume", models.Resume{}},
		{"ParsedResumeDetails", models.ParsedResumeDetails{}},
		{"SkillZone", models.SkillZone{}},
		{"SkillZoneCandidate", models.SkillZoneCandidate{}},
	}

	for _, entity := range entities {
		if err := c.DB.AutoMigrate(entity.model); err != nil {
			return fmt.Errorf("failed to migrate %s entity: %w", entity.name, err)
		}
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
