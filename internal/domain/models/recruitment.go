package models

import "time"

type Recruitment struct {
	ID              int
	Title           string
	Vacancy         int
	Closed          bool
	IsActive        bool
	OptionalResume  bool
	OptionalProfile bool
	Stages          []Stage    `gorm:"foreignKey:RecruitmentID"`
	Skills          []Skill    `gorm:"many2many:recruitment_skills"`
	Managers        []Employee `gorm:"many2many:recruitment_managers"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewRecruitment(title string, vacancy int) *Recruitment {
	return &Recruitment{Title: title, Vacancy: vacancy, IsActive: true}
}

// IsVacancyFilled reports whether hired reaches the vacancy target. It never
// closes the recruitment.
func (r Recruitment) IsVacancyFilled(hired int64) bool {
	return hired >= int64(r.Vacancy)
}

func (r Recruitment) SkillTitles() []string {
	titles := make([]string, 0, len(r.Skills))
	for _, skill := range r.Skills {
		titles = append(titles, skill.Title)
	}
	return titles
}

func (r Recruitment) IsManagedBy(employeeID int) bool {
	return containsEmployee(r.Managers, employeeID)
}

type Skill struct {
	ID    int
	Title string `gorm:"uniqueIndex"`
}

type Employee struct {
	ID             int
	Name           string
	TelegramChatID int64
}

// Actor is whoever performs a pipeline mutation.
type Actor struct {
	EmployeeID int
	Superuser  bool
}

func containsEmployee(employees []Employee, employeeID int) bool {
	for _, employee := range employees {
		if employee.ID == employeeID {
			return true
		}
	}
	return false
}
