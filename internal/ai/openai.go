package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ptapp/coaching-backend/internal/config"
	"ptapp/coaching-backend/internal/service"

	log "github.com/sirupsen/logrus"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	defaultModel       = "gpt-4o-mini"
	requestTimeout     = 60 * time.Second
)

const workoutSystemPrompt = `You are a fitness coach. Respond with a single JSON object describing one workout:
{"name": string, "workout_exercises": [{"exercise_name": string, "sets": int, "reps": int, "note": string}]}.
No prose, JSON only.`

const programSystemPrompt = `You are a fitness coach. Respond with a single JSON object describing a training program:
{"name": string, "description": string, "workouts": [{"name": string, "workout_exercises": [{"exercise_name": string, "sets": int, "reps": int, "note": string}]}]}.
No prose, JSON only.`

// openAIClient implements service.SuggestionClient against an
// OpenAI-compatible chat completions endpoint.
type openAIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates a suggestion client backed by the OpenAI API.
func NewOpenAIClient(cfg config.AIConfig) (service.SuggestionClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &openAIClient{
		apiKey:     cfg.APIKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *openAIClient) SuggestWorkout(ctx context.Context, prompt string) (*service.WorkoutSuggestion, error) {
	raw, err := c.complete(ctx, workoutSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	var suggestion service.WorkoutSuggestion
	if err := json.Unmarshal(raw, &suggestion); err != nil {
		return nil, fmt.Errorf("ai: invalid workout suggestion: %w", err)
	}
	return &suggestion, nil
}

func (c *openAIClient) SuggestProgram(ctx context.Context, prompt string) (*service.ProgramSuggestion, error) {
	raw, err := c.complete(ctx, programSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	var suggestion service.ProgramSuggestion
	if err := json.Unmarshal(raw, &suggestion); err != nil {
		return nil, fmt.Errorf("ai: invalid program suggestion: %w", err)
	}
	return &suggestion, nil
}

func (c *openAIClient) complete(ctx context.Context, system, user string) ([]byte, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ai: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		log.WithFields(log.Fields{"status": resp.StatusCode, "model": c.model}).Warn("ai request failed")
		return nil, fmt.Errorf("ai: request failed: %s", msg)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("ai: empty completion")
	}

	return []byte(parsed.Choices[0].Message.Content), nil
}
