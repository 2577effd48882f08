package services

import (
	"context"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockSnapshotLoader struct {
	mock.Mock
}

func (m *mockSnapshotLoader) LoadSnapshot(ctx context.Context, filter models.PipelineFilter) (*models.PipelineSnapshot, error) {
	args := m.Called(ctx, filter)
	snapshot, _ := args.Get(0).(*models.PipelineSnapshot)
	return snapshot, args.Error(1)
}

func Test_PipelineSessions_WhenSameFilter_ShouldLoadOnce(t *testing.T) {
	ctx := context.Background()
	filter := models.PipelineFilter{Search: "ann"}
	loader := &mockSnapshotLoader{}
	loader.On("LoadSnapshot", mock.Anything, filter).
		Return(&models.PipelineSnapshot{Filter: filter, Candidates: []models.Candidate{{ID: 1}}}, nil).Once()

	sessions := NewPipelineSessions(loader, time.Minute)
	key := sessions.NewSessionKey()

	first, err := sessions.GetOrPopulate(ctx, key, filter)
	require.NoError(t, err)
	second, err := sessions.GetOrPopulate(ctx, key, filter)
	require.NoError(t, err)

	assert.Same(t, first, second)
	loader.AssertExpectations(t)
}

func Test_PipelineSessions_WhenFilterChanges_ShouldReload(t *testing.T) {
	ctx := context.Background()
	loader := &mockSnapshotLoader{}
	loader.On("LoadSnapshot", mock.Anything, mock.Anything).
		Return(&models.PipelineSnapshot{}, nil).Twice()

	sessions := NewPipelineSessions(loader, time.Minute)
	key := sessions.NewSessionKey()

	_, err := sessions.GetOrPopulate(ctx, key, models.PipelineFilter{Search: "ann"})
	require.NoError(t, err)
	_, err = sessions.Populate(ctx, key, models.PipelineFilter{Search: "bob"})
	require.NoError(t, err)

	loader.AssertExpectations(t)
}

func Test_PipelineSessions_WhenEvictedOrExpired_ShouldMiss(t *testing.T) {
	ctx := context.Background()
	loader := &mockSnapshotLoader{}
	loader.On("LoadSnapshot", mock.Anything, mock.Anything).Return(&models.PipelineSnapshot{}, nil)

	sessions := NewPipelineSessions(loader, 50*time.Millisecond)
	evicted, expired := sessions.NewSessionKey(), sessions.NewSessionKey()
	assert.NotEqual(t, evicted, expired)

	_, err := sessions.Populate(ctx, evicted, models.PipelineFilter{})
	require.NoError(t, err)
	_, err = sessions.Populate(ctx, expired, models.PipelineFilter{})
	require.NoError(t, err)

	sessions.Evict(evicted)
	_, found := sessions.Get(evicted)
	assert.False(t, found)

	time.Sleep(100 * time.Millisecond)
	_, found = sessions.Get(expired)
	assert.False(t, found)
}

func Test_PipelineSessions_WithStore_ShouldServeSubViews(t *testing.T) {
	ctx := context.Background()
	env := newPipelineEnv(t, 5)
	env.addCandidates(t, env.recruitment.ID, "Ann", "Bob")

	sessions := NewPipelineSessions(env.graph, time.Minute)
	snapshot, err := sessions.Populate(ctx, sessions.NewSessionKey(), models.PipelineFilter{})
	require.NoError(t, err)

	assert.Len(t, snapshot.RecruitmentStages(env.recruitment.ID), 4)
	assert.Equal(t, 2, snapshot.BadgeCount(env.applied.ID))
	assert.Equal(t, 0, snapshot.BadgeCount(env.hired.ID))
}
