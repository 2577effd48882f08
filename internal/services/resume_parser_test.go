package services

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
	"time"
)

type mockAiClient struct {
	mock.Mock
}

func (m *mockAiClient) GenerateResponse(ctx context.Context, request string) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func Test_Parse_WhenFencedJSON_ShouldDecodeSections(t *testing.T) {
	ai := &mockAiClient{}
	ai.On("GenerateResponse", mock.Anything, mock.MatchedBy(func(request string) bool {
		return strings.Contains(request, "Go developer since 2015") && strings.Contains(request, "never invent")
	})).Return("```json\n{\"education\": [{\"degree\": \"BSc\"}], \"skills\": [\"Go\", \"SQL\"], "+
		"\"experience\": null, \"summary\": \"Backend engineer\"}\n```", nil).Once()

	details, err := NewResumeParser(ai, time.Second).Parse(context.Background(), "Go developer since 2015")

	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"degree": "BSc"}}, details.Education)
	assert.Equal(t, []any{"Go", "SQL"}, details.Skills)
	assert.Equal(t, []any{}, details.Experience)
	assert.Equal(t, []any{}, details.Certifications)
	assert.Equal(t, "Backend engineer", details.Summary)
	ai.AssertExpectations(t)
}

func Test_Parse_WhenSectionIsScalar_ShouldWrapIt(t *testing.T) {
	ai := &mockAiClient{}
	ai.On("GenerateResponse", mock.Anything, mock.Anything).
		Return(`{"skills": "Go", "certifications": "", "summary": null}`, nil)

	details, err := NewResumeParser(ai, 0).Parse(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []any{"Go"}, details.Skills)
	assert.Equal(t, []any{}, details.Certifications)
	assert.Empty(t, details.Summary)
}

func Test_Parse_WhenResponseMalformed_ShouldReturnError(t *testing.T) {
	ai := &mockAiClient{}
	ai.On("GenerateResponse", mock.Anything, mock.Anything).Return("not json at all", nil)

	_, err := NewResumeParser(ai, time.Second).Parse(context.Background(), "text")

	assert.Error(t, err)
}

func Test_Parse_WhenClientFails_ShouldReturnError(t *testing.T) {
	ai := &mockAiClient{}
	ai.On("GenerateResponse", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	_, err := NewResumeParser(ai, time.Second).Parse(context.Background(), "text")

	assert.EqualError(t, err, "timeout")
}
