package services

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/maxaizer/recruitment-funnel/internal/domain/events"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/logger"
	"github.com/maxaizer/recruitment-funnel/internal/metrics"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"time"
)

const (
	NotificationCandidateMoved = "candidate_moved"
	NotificationVacancyFilled  = "vacancy_filled"
)

// NotificationSink delivers a notification to one channel.
type NotificationSink interface {
	Name() string
	Notify(ctx context.Context, notification models.Notification) error
}

// Notifier turns pipeline events into manager notifications. Delivery is best effort:
// sink failures are logged and never reach the mutation that raised the event.
type Notifier struct {
	bus     EventBus.Bus
	sinks   []NotificationSink
	timeout time.Duration
}

func NewNotifier(bus EventBus.Bus, timeout time.Duration, sinks ...NotificationSink) (*Notifier, error) {
	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	n := &Notifier{bus: bus, sinks: sinks, timeout: timeout}

	if err := bus.SubscribeAsync(events.CandidateMovedTopic, n.onCandidateMoved, false); err != nil {
		return nil, err
	}
	if err := bus.SubscribeAsync(events.VacancyFilledTopic, n.onVacancyFilled, false); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) onCandidateMoved(event events.CandidateMoved) {
	var recipients []models.Employee
	recipients = append(recipients, event.Stage.Managers...)
	if event.Stage.Recruitment != nil {
		recipients = append(recipients, event.Stage.Recruitment.Managers...)
	}

	n.dispatch(models.Notification{
		ID:         uuid.NewString(),
		Kind:       NotificationCandidateMoved,
		Message:    fmt.Sprintf("Candidate %s moved to stage %s", event.Candidate.Name, event.Stage.Title),
		Recipients: lo.UniqBy(recipients, func(e models.Employee) int { return e.ID }),
		Payload: map[string]any{
			"candidate_id":  event.Candidate.ID,
			"stage_id":      event.Stage.ID,
			"from_stage_id": event.FromStageID,
			"actor_id":      event.ActorID,
		},
		CreatedAt: event.At,
	})
}

func (n *Notifier) onVacancyFilled(event events.VacancyFilled) {
	n.dispatch(models.Notification{
		ID:   uuid.NewString(),
		Kind: NotificationVacancyFilled,
		Message: fmt.Sprintf("Recruitment %s has filled its vacancy: %d hired of %d",
			event.Recruitment.Title, event.Hired, event.Recruitment.Vacancy),
		Recipients: event.Recruitment.Managers,
		Payload: map[string]any{
			"recruitment_id": event.Recruitment.ID,
			"hired":          event.Hired,
		},
		CreatedAt: time.Now(),
	})
}

func (n *Notifier) dispatch(notification models.Notification) {
	for _, sink := range n.sinks {
		n.send(sink, notification)
	}
}

func (n *Notifier) send(sink NotificationSink, notification models.Notification) {
	defer func() {
		if r := recover(); r != nil {
			metrics.NotificationsCounter.WithLabelValues(sink.Name(), "failed").Inc()
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).
				Errorf("sink %s panicked on %s notification: %v", sink.Name(), notification.Kind, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := sink.Notify(ctx, notification); err != nil {
		metrics.NotificationsCounter.WithLabelValues(sink.Name(), "failed").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeNotify).
			Errorf("sink %s failed on %s notification: %v", sink.Name(), notification.Kind, err)
		return
	}
	metrics.NotificationsCounter.WithLabelValues(sink.Name(), "sent").Inc()
}

// Wait blocks until queued notifications are delivered.
func (n *Notifier) Wait() {
	n.bus.WaitAsync()
}
