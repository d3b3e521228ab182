package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/resumind/internal/analyzer"
)

const (
	agentName   = "candidate_summarizer"
	agentUserID = "resumind"
	// resume text beyond this is not sent to the model
	maxPromptRunes = 12000
)

func GetAgent(ctx context.Context, apiKey, name string) (agent.Agent, error) {
	model, err := gemini.NewModel(ctx, "gemini-2.5-pro", &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	customAgent, err := llmagent.New(llmagent.Config{
		Name:        name,
		Model:       model,
		Description: "Summarize a candidate resume",
		Instruction: prompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	return customAgent, nil
}

// geminiSummarizer writes a short candidate summary for each uploaded resume.
// Every call runs in its own agent session.
type geminiSummarizer struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
}

func newGeminiSummarizer(ctx context.Context, apiKey string) (*geminiSummarizer, error) {
	a, err := GetAgent(ctx, apiKey, agentName)
	if err != nil {
		return nil, err
	}
	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        a.Name(),
		Agent:          a,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	return &geminiSummarizer{runner: r, sessions: sessions, appName: a.Name()}, nil
}

func (g *geminiSummarizer) Summarize(ctx context.Context, profile analyzer.Profile, text string) (string, error) {
	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		_ = g.sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   created.Session.AppName(),
			UserID:    created.Session.UserID(),
			SessionID: created.Session.ID(),
		})
	}()

	msg, err := summaryMessage(profile, text)
	if err != nil {
		return "", err
	}

	output, err := retry(2, func() (string, error) {
		stream := g.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
			Role: "user",
			Parts: []*genai.Part{
				{Text: msg},
			},
		}, agent.RunConfig{})

		var output string
		for event, err := range stream {
			if err != nil {
				return "", err
			}
			if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
				output = event.Content.Parts[0].Text
			}
		}
		if output == "" {
			return "", fmt.Errorf("empty agent response")
		}
		return output, nil
	})
	if err != nil {
		return "", fmt.Errorf("agent stream error: %w", err)
	}
	return parseSummary(output)
}

func summaryMessage(profile analyzer.Profile, text string) (string, error) {
	fields, err := json.Marshal(profile)
	if err != nil {
		return "", err
	}
	if r := []rune(text); len(r) > maxPromptRunes {
		text = string(r[:maxPromptRunes])
	}
	return fmt.Sprintf("Extracted fields:\n%s\n\nResume:\n%s", fields, text), nil
}

func parseSummary(output string) (string, error) {
	var res struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(CleanJson(output)), &res); err != nil {
		return "", fmt.Errorf("json unmarshal error: %w", err)
	}
	summary := strings.TrimSpace(res.Summary)
	if summary == "" {
		return "", fmt.Errorf("agent returned an empty summary")
	}
	return summary, nil
}
