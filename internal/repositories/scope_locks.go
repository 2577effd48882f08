package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"strconv"
	"sync"
)

// scopeLocks serializes writers of one ordering scope inside this process.
// Different scopes never share a mutex.
type scopeLocks struct {
	locks sync.Map
}

func (s *scopeLocks) lock(key string) func() {
	value, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func stageScope(stageID int) string {
	return "stage:" + strconv.Itoa(stageID)
}

func recruitmentScope(recruitmentID int) string {
	return "recruitment:" + strconv.Itoa(recruitmentID)
}

// lockRow takes a row lock on the scope owner for other processes sharing the database.
// sqlite has no row locks and relies on the single connection instead.
func lockRow(tx *gorm.DB, dest any, id int) error {
	if tx.Dialector.Name() != DriverSqlite {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx.First(dest, "id = ?", id).Error
}
