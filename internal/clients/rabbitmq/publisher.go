package rabbitmq

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"time"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher forwards notifications to a topic exchange for downstream delivery services.
type Publisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
}

func NewPublisher(url string, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Infof("publishing notifications to exchange %s", exchange)
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *Publisher) Name() string {
	return "amqp"
}

type message struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	Recipients []int     `json:"recipients"`
	Payload    any       `json:"payload,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func RoutingKey(kind string) string {
	return "recruitment." + kind
}

func (p *Publisher) Notify(ctx context.Context, notification models.Notification) error {
	recipients := make([]int, 0, len(notification.Recipients))
	for _, recipient := range notification.Recipients {
		recipients = append(recipients, recipient.ID)
	}

	body, err := json.Marshal(message{
		ID:         notification.ID,
		Kind:       notification.Kind,
		Message:    notification.Message,
		Recipients: recipients,
		Payload:    notification.Payload,
		CreatedAt:  notification.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, p.exchange, RoutingKey(notification.Kind), false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    notification.ID,
			Timestamp:    notification.CreatedAt,
			Body:         body,
		})
}

func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
