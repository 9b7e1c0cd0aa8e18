package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vidyamath/api/internal/client"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/narration"
	"github.com/vidyamath/api/internal/script"
)

// ComposeService drafts animation scripts. When a Groq client is configured
// it asks the model; otherwise it falls back to the deterministic composer,
// which is also what the render pipeline itself uses.
type ComposeService struct {
	groqClient *client.GroqClient
	bounds     model.GradeBounds
}

// NewComposeService creates a new compose service with Groq client
func NewComposeService(groqClient *client.GroqClient, bounds model.GradeBounds) *ComposeService {
	return &ComposeService{
		groqClient: groqClient,
		bounds:     bounds,
	}
}

// Draft produces a standalone script draft for a problem without rendering.
func (s *ComposeService) Draft(ctx context.Context, req *model.ComposeDraftRequest) (*model.ComposeDraftResponse, error) {
	problem, err := req.Problem.Validate(s.bounds)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entryPoint := script.EntryPointName(problem.Topic, now)

	if s.groqClient == nil || !s.groqClient.IsConfigured() {
		return s.draftDeterministic(problem, entryPoint, now)
	}

	response, err := s.groqClient.ChatCompletion(ctx, s.buildSystemPrompt(), s.buildDraftPrompt(problem, entryPoint))
	if err != nil {
		return nil, fmt.Errorf("AI draft failed: %w", err)
	}

	return &model.ComposeDraftResponse{
		EntryPoint:  entryPoint,
		TopicFamily: problem.Family(),
		Script:      extractCode(response),
		Source:      "llm",
	}, nil
}

func (s *ComposeService) draftDeterministic(problem *model.Problem, entryPoint string, now time.Time) (*model.ComposeDraftResponse, error) {
	narr := narration.Build(problem, now)
	prog, err := script.Compose(problem, narr, entryPoint)
	if err != nil {
		return nil, err
	}
	text, err := prog.Render()
	if err != nil {
		return nil, err
	}

	return &model.ComposeDraftResponse{
		EntryPoint:  entryPoint,
		TopicFamily: problem.Family(),
		Script:      text,
		Source:      "composer",
	}, nil
}

func (s *ComposeService) buildSystemPrompt() string {
	return `You are an expert at writing Manim Community Edition animations for school mathematics.
Write complete, runnable Python scripts with a single Scene subclass.
Output only the Python code, no commentary.`
}

func (s *ComposeService) buildDraftPrompt(p *model.Problem, entryPoint string) string {
	var steps strings.Builder
	for i, step := range p.SolutionSteps {
		fmt.Fprintf(&steps, "%d. %s\n", i+1, step)
	}

	return fmt.Sprintf(`Write a Manim scene class named %s that walks through this Grade %d %s problem.

Problem: %s

Solution steps:
%s
Final answer: %s

Show the problem statement, animate each solution step in order, and end with the boxed answer.
Use a white background and dark text colors.`,
		entryPoint, p.Grade, p.Topic, p.Statement, steps.String(), p.Answer)
}

// extractCode strips a markdown code fence from a model response, if present.
func extractCode(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```python")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
