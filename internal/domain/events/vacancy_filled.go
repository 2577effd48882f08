package events

import "github.com/maxaizer/recruitment-funnel/internal/domain/models"

var VacancyFilledTopic = "VacancyFilledEvent"

type VacancyFilled struct {
	Recruitment models.Recruitment
	Hired       int64
}
