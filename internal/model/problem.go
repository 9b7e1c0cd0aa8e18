package model

import (
	"fmt"
	"strings"
)

// Problem is the validated, immutable representation of a math problem.
// It is constructed once per generation request and never persisted by the
// pipeline itself.
type Problem struct {
	Statement     string   `json:"statement"`
	Grade         int      `json:"grade"`
	Topic         string   `json:"topic"`
	SolutionSteps []string `json:"solutionSteps"`
	Answer        string   `json:"answer"`
}

// GradeBounds is the inclusive grade range accepted by validation.
type GradeBounds struct {
	Min int
	Max int
}

// DefaultGradeBounds matches the NCERT middle/secondary school range.
var DefaultGradeBounds = GradeBounds{Min: 6, Max: 10}

// Validation error kinds
const (
	ErrKindMissingField    = "MISSING_FIELD"
	ErrKindGradeOutOfRange = "GRADE_OUT_OF_RANGE"
	ErrKindEmptySolution   = "EMPTY_SOLUTION"
)

// ValidationError reports a rejected problem input. The pipeline never starts
// when validation fails.
type ValidationError struct {
	Kind  string
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrKindGradeOutOfRange:
		return "grade out of range"
	case ErrKindEmptySolution:
		return "solution steps must be a non-empty list"
	default:
		return fmt.Sprintf("missing or empty field: %s", e.Field)
	}
}

// RawProblem holds problem fields as they arrive from the client. Solution
// steps may be supplied either pre-split or as one multi-line block.
type RawProblem struct {
	Statement     string   `json:"statement" validate:"required"`
	Grade         int      `json:"grade" validate:"required"`
	Topic         string   `json:"topic" validate:"required"`
	SolutionSteps []string `json:"solutionSteps" validate:"omitempty,dive,min=1"`
	SolutionText  string   `json:"solutionText" validate:"omitempty"`
	Answer        string   `json:"answer" validate:"required"`
}

// Validate normalizes a raw problem into an immutable Problem. A solution
// supplied as a single block is split on line breaks; blank lines are dropped.
func (r *RawProblem) Validate(bounds GradeBounds) (*Problem, error) {
	if strings.TrimSpace(r.Statement) == "" {
		return nil, &ValidationError{Kind: ErrKindMissingField, Field: "statement"}
	}
	if strings.TrimSpace(r.Topic) == "" {
		return nil, &ValidationError{Kind: ErrKindMissingField, Field: "topic"}
	}
	if strings.TrimSpace(r.Answer) == "" {
		return nil, &ValidationError{Kind: ErrKindMissingField, Field: "answer"}
	}
	if r.Grade < bounds.Min || r.Grade > bounds.Max {
		return nil, &ValidationError{Kind: ErrKindGradeOutOfRange, Field: "grade"}
	}

	steps := r.SolutionSteps
	if len(steps) == 0 && r.SolutionText != "" {
		steps = SplitSolutionSteps(r.SolutionText)
	}
	var clean []string
	for _, s := range steps {
		if t := strings.TrimSpace(s); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) == 0 {
		return nil, &ValidationError{Kind: ErrKindEmptySolution, Field: "solutionSteps"}
	}

	return &Problem{
		Statement:     strings.TrimSpace(r.Statement),
		Grade:         r.Grade,
		Topic:         strings.TrimSpace(r.Topic),
		SolutionSteps: clean,
		Answer:        strings.TrimSpace(r.Answer),
	}, nil
}

// SplitSolutionSteps splits a multi-line solution block into ordered steps.
func SplitSolutionSteps(block string) []string {
	var steps []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			steps = append(steps, t)
		}
	}
	return steps
}

// Family returns the topic family driving script composition.
func (p *Problem) Family() TopicFamily {
	return ClassifyTopic(p.Topic)
}
