package model

import (
	"errors"
	"testing"
)

func validRaw() *RawProblem {
	return &RawProblem{
		Statement:     "Solve for x: 2x + 5 = 13",
		Grade:         8,
		Topic:         "Linear Equations",
		SolutionSteps: []string{"2x + 5 = 13", "2x = 13 - 5", "2x = 8", "x = 4"},
		Answer:        "x = 4",
	}
}

func TestValidate_Success(t *testing.T) {
	p, err := validRaw().Validate(DefaultGradeBounds)
	if err != nil {
		t.Fatalf("expected valid problem, got %v", err)
	}
	if p.Statement != "Solve for x: 2x + 5 = 13" {
		t.Errorf("unexpected statement: %q", p.Statement)
	}
	if len(p.SolutionSteps) != 4 {
		t.Errorf("expected 4 steps, got %d", len(p.SolutionSteps))
	}
}

func TestValidate_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawProblem)
		field  string
	}{
		{"statement", func(r *RawProblem) { r.Statement = "" }, "statement"},
		{"statement whitespace", func(r *RawProblem) { r.Statement = "   " }, "statement"},
		{"topic", func(r *RawProblem) { r.Topic = "" }, "topic"},
		{"answer", func(r *RawProblem) { r.Answer = "\t" }, "answer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.mutate(raw)
			_, err := raw.Validate(DefaultGradeBounds)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Kind != ErrKindMissingField {
				t.Errorf("expected kind %s, got %s", ErrKindMissingField, verr.Kind)
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %s, got %s", tc.field, verr.Field)
			}
		})
	}
}

func TestValidate_GradeOutOfRange(t *testing.T) {
	for _, grade := range []int{0, 5, 11, -3} {
		raw := validRaw()
		raw.Grade = grade
		_, err := raw.Validate(DefaultGradeBounds)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("grade %d: expected ValidationError, got %v", grade, err)
		}
		if verr.Kind != ErrKindGradeOutOfRange {
			t.Errorf("grade %d: expected kind %s, got %s", grade, ErrKindGradeOutOfRange, verr.Kind)
		}
	}

	// Boundary grades are accepted
	for _, grade := range []int{6, 10} {
		raw := validRaw()
		raw.Grade = grade
		if _, err := raw.Validate(DefaultGradeBounds); err != nil {
			t.Errorf("grade %d: expected success, got %v", grade, err)
		}
	}
}

func TestValidate_EmptySolution(t *testing.T) {
	raw := validRaw()
	raw.SolutionSteps = nil
	_, err := raw.Validate(DefaultGradeBounds)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Kind != ErrKindEmptySolution {
		t.Fatalf("expected EMPTY_SOLUTION, got %v", err)
	}

	// Steps that are all whitespace count as empty too
	raw = validRaw()
	raw.SolutionSteps = []string{"  ", "\t"}
	_, err = raw.Validate(DefaultGradeBounds)
	if !errors.As(err, &verr) || verr.Kind != ErrKindEmptySolution {
		t.Fatalf("expected EMPTY_SOLUTION for blank steps, got %v", err)
	}
}

func TestValidate_SolutionTextBlock(t *testing.T) {
	raw := validRaw()
	raw.SolutionSteps = nil
	raw.SolutionText = "2x + 5 = 13\n\n  2x = 8  \nx = 4\n"

	p, err := raw.Validate(DefaultGradeBounds)
	if err != nil {
		t.Fatalf("expected valid problem, got %v", err)
	}
	want := []string{"2x + 5 = 13", "2x = 8", "x = 4"}
	if len(p.SolutionSteps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(p.SolutionSteps))
	}
	for i, s := range want {
		if p.SolutionSteps[i] != s {
			t.Errorf("step %d: expected %q, got %q", i, s, p.SolutionSteps[i])
		}
	}
}

func TestValidate_PreSplitStepsWin(t *testing.T) {
	raw := validRaw()
	raw.SolutionText = "this block is ignored"

	p, err := raw.Validate(DefaultGradeBounds)
	if err != nil {
		t.Fatalf("expected valid problem, got %v", err)
	}
	if len(p.SolutionSteps) != 4 {
		t.Errorf("expected pre-split steps to win, got %v", p.SolutionSteps)
	}
}

func TestSplitSolutionSteps(t *testing.T) {
	steps := SplitSolutionSteps("a\nb\n\n c \n")
	want := []string{"a", "b", "c"}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %v", len(want), steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], steps[i])
		}
	}
}

func TestClassifyTopic(t *testing.T) {
	cases := []struct {
		topic string
		want  TopicFamily
	}{
		{"Linear Equations", FamilyAlgebra},
		{"Quadratic Equations", FamilyAlgebra},
		{"Algebra basics", FamilyAlgebra},
		{"Triangles and Circles", FamilyGeometry},
		{"Coordinate Geometry", FamilyCoordinateGeometry},
		{"Introduction to Trigonometry", FamilyTrigonometry},
		{"sin and cos ratios", FamilyTrigonometry},
		{"Probability", FamilyStatistics},
		{"Data Handling", FamilyStatistics},
		{"Mensuration", FamilyGeneric},
		{"", FamilyGeneric},
		{"LINEAR equations", FamilyAlgebra},
	}
	for _, tc := range cases {
		if got := ClassifyTopic(tc.topic); got != tc.want {
			t.Errorf("ClassifyTopic(%q) = %s, want %s", tc.topic, got, tc.want)
		}
	}
}

func TestRenderQuality(t *testing.T) {
	if QualityLow.Flag() != "-ql" || QualityLow.OutputDir() != "480p15" {
		t.Error("unexpected low quality mapping")
	}
	if QualityMedium.Flag() != "-qm" || QualityMedium.OutputDir() != "720p30" {
		t.Error("unexpected medium quality mapping")
	}
	if QualityHigh.Flag() != "-qh" || QualityHigh.OutputDir() != "1080p60" {
		t.Error("unexpected high quality mapping")
	}
	// Unknown presets behave like high
	if RenderQuality("").Flag() != "-qh" {
		t.Error("expected empty quality to default to -qh")
	}
}
