package telegram

import (
	"context"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/maxaizer/recruitment-funnel/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Sink delivers notifications to the Telegram chats of the recipients.
type Sink struct {
	api apiInterface
}

func NewSink(token string) (*Sink, error) {
	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	return newSink(api), nil
}

func newSink(api apiInterface) *Sink {
	return &Sink{api: api}
}

func (s *Sink) Name() string {
	return "telegram"
}

// Notify sends to every recipient with a chat. A failed recipient does not stop the rest.
func (s *Sink) Notify(ctx context.Context, notification models.Notification) error {
	var failed int
	for _, recipient := range notification.Recipients {
		if recipient.TelegramChatID == 0 {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg := botApi.NewMessage(recipient.TelegramChatID, notification.Message)
		if _, err := s.api.Send(msg); err != nil {
			failed++
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
				Errorf("error occurred while sending message to employee %d: %v", recipient.ID, err)
		}
	}

	if failed > 0 {
		return errors.Errorf("failed to deliver to %d recipient(s)", failed)
	}
	return nil
}
