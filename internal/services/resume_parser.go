package services

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/maxaizer/recruitment-funnel/internal/domain/models"
	"strings"
	"time"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

// ResumeParser asks a language model for the structured sections of a résumé.
type ResumeParser struct {
	aiClient aiClient
	timeout  time.Duration
}

func NewResumeParser(aiClient aiClient, timeout time.Duration) *ResumeParser {
	return &ResumeParser{aiClient: aiClient, timeout: timeout}
}

func (p *ResumeParser) Parse(ctx context.Context, text string) (*models.ResumeDetails, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	response, err := p.aiClient.GenerateResponse(ctx, resumeParseRequest(text))
	if err != nil {
		return nil, err
	}

	return decodeResumeDetails(response)
}

func resumeParseRequest(text string) string {
	return "Extract structured information from the resume below. " +
		"Only report data explicitly present in the text and never invent or infer anything. " +
		"Return a single JSON object with exactly these keys: " +
		"\"education\" (list), \"skills\" (list), \"experience\" (list), \"certifications\" (list), " +
		"\"summary\" (string or null). " +
		"If a section is absent return an empty list for it, and null for a missing summary. " +
		"Respond with the JSON object only.\n\nResume:\n" + text
}

// decodeResumeDetails accepts the model's JSON with or without a markdown fence. Missing or
// null sections become empty lists and a bare value becomes a one-element list.
func decodeResumeDetails(response string) (*models.ResumeDetails, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &raw); err != nil {
		return nil, fmt.Errorf("malformed parser response: %w", err)
	}

	details := models.EmptyResumeDetails()
	sections := map[string]*[]any{
		"education":      &details.Education,
		"skills":         &details.Skills,
		"experience":     &details.Experience,
		"certifications": &details.Certifications,
	}

	for key, target := range sections {
		list, err := decodeList(raw[key])
		if err != nil {
			return nil, fmt.Errorf("malformed %s section: %w", key, err)
		}
		*target = list
	}

	summary, err := decodeSummary(raw["summary"])
	if err != nil {
		return nil, fmt.Errorf("malformed summary: %w", err)
	}
	details.Summary = summary

	return &details, nil
}

func decodeList(raw json.RawMessage) ([]any, error) {
	if len(raw) == 0 {
		return []any{}, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}, nil
		}
		return []any{v}, nil
	default:
		return []any{v}, nil
	}
}

func decodeSummary(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", err
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	default:
		return string(raw), nil
	}
}

func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}

	response = strings.TrimPrefix(response, "```")
	response = strings.TrimPrefix(response, "json")
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	return strings.TrimSpace(response)
}
