package rabbitmq

import (
	"context"
	"encoding/json"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, msg).Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func Test_Notify_ShouldPublishJSONWithKindRoutingKey(t *testing.T) {
	ch := &mockChannel{}
	var published amqp.Publishing
	ch.On("PublishWithContext", mock.Anything, "recruitment", "recruitment.candidate_moved", mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(3).(amqp.Publishing)
		}).
		Return(nil).Once()

	publisher := &Publisher{channel: ch, exchange: "recruitment"}
	err := publisher.Notify(context.Background(), models.Notification{
		ID:         "n-1",
		Kind:       "candidate_moved",
		Message:    "Ann moved to Interview",
		Recipients: []models.Employee{{ID: 4}, {ID: 9}},
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	ch.AssertExpectations(t)

	var body message
	require.NoError(t, json.Unmarshal(published.Body, &body))
	assert.Equal(t, "n-1", published.MessageId)
	assert.Equal(t, "application/json", published.ContentType)
	assert.Equal(t, []int{4, 9}, body.Recipients)
	assert.Equal(t, "Ann moved to Interview", body.Message)
}
