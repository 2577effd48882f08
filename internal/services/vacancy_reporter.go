package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/logger"
	"github.com/maxaizer/recruitment-funnel/internal/metrics"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"strconv"
)

type openRecruitments interface {
	GetOpen(ctx context.Context) ([]models.Recruitment, error)
}

// VacancyReporter periodically publishes hired counts of open recruitments as gauges.
type VacancyReporter struct {
	recruitments openRecruitments
	vacancies    vacancyChecker
	cron         *cron.Cron
}

func NewVacancyReporter(recruitments openRecruitments, vacancies vacancyChecker, schedule string) (*VacancyReporter, error) {

	if recruitments == nil || vacancies == nil {
		return nil, errors.New("vacancy reporter dependencies must not be nil")
	}

	vr := &VacancyReporter{
		recruitments: recruitments,
		vacancies:    vacancies,
		cron:         cron.New(),
	}

	_, err := vr.cron.AddFunc(schedule, func() { vr.Report(context.Background()) })
	if err != nil {
		return nil, err
	}

	return vr, nil
}

func (vr *VacancyReporter) Start() {
	vr.cron.Start()
	log.Info("vacancy reporter started")
}

func (vr *VacancyReporter) Stop() {
	<-vr.cron.Stop().Done()
}

func (vr *VacancyReporter) Report(ctx context.Context) {
	recruitments, err := vr.recruitments.GetOpen(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeReport).Errorf("can't load open recruitments: %v", err)
		return
	}

	metrics.HiredGauge.Reset()
	metrics.VacancyFilledGauge.Reset()

	for _, recruitment := range recruitments {
		filled, hired, err := vr.vacancies.IsFilled(ctx, recruitment)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeReport).
				Errorf("can't count hired candidates of recruitment %d: %v", recruitment.ID, err)
			continue
		}

		label := strconv.Itoa(recruitment.ID)
		metrics.HiredGauge.WithLabelValues(label).Set(float64(hired))
		metrics.VacancyFilledGauge.WithLabelValues(label).Set(boolToFloat(filled))
	}

	log.Infof("vacancy report refreshed for %d recruitments", len(recruitments))
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
