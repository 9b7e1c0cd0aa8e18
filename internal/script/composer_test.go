package script

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/narration"
)

func sampleProblem(topic string) *model.Problem {
	return &model.Problem{
		Statement:     "Solve for x: 2x + 5 = 13",
		Grade:         8,
		Topic:         topic,
		SolutionSteps: []string{"2x + 5 = 13", "2x = 8", "x = 4"},
		Answer:        "x = 4",
	}
}

func composeSample(t *testing.T, topic string, stamp time.Time) *Program {
	t.Helper()
	p := sampleProblem(topic)
	narr := narration.Build(p, stamp)
	prog, err := Compose(p, narr, EntryPointName(p.Topic, stamp))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	return prog
}

func TestEntryPointName(t *testing.T) {
	stamp := time.Unix(1700000000, 0)
	cases := []struct {
		topic string
		want  string
	}{
		{"Linear Equations", "LinearEquationsProblem1700000000"},
		{"algebra", "AlgebraProblem1700000000"},
		{"quadratic-equations 2", "QuadraticEquations2Problem1700000000"},
		{"  त्रिकोणमिति  ", "MathProblem1700000000"},
		{"", "MathProblem1700000000"},
		{"123", "MathProblem1700000000"},
	}
	for _, tc := range cases {
		got := EntryPointName(tc.topic, stamp)
		if got != tc.want {
			t.Errorf("EntryPointName(%q) = %q, want %q", tc.topic, got, tc.want)
		}
		if !identifierRe.MatchString(got) {
			t.Errorf("EntryPointName(%q) = %q is not a valid identifier", tc.topic, got)
		}
	}
}

func TestCompose_RejectsInvalidEntryPoint(t *testing.T) {
	p := sampleProblem("algebra")
	narr := narration.Build(p, time.Unix(1700000000, 0))
	for _, bad := range []string{"", "1Leading", "has space", "semi;colon"} {
		if _, err := Compose(p, narr, bad); err == nil {
			t.Errorf("Compose accepted invalid entry point %q", bad)
		}
	}
}

func TestCompose_AudioFollowsNarrationOrder(t *testing.T) {
	stamp := time.Unix(1700000000, 0)
	p := sampleProblem("algebra")
	narr := narration.Build(p, stamp)
	prog := composeSample(t, "algebra", stamp)

	keys := narr.Keys()
	if len(prog.Audio) != len(keys) {
		t.Fatalf("expected %d audio lines, got %d", len(keys), len(prog.Audio))
	}
	for i, line := range prog.Audio {
		if line.Key != keys[i] {
			t.Errorf("audio line %d: expected key %s, got %s", i, keys[i], line.Key)
		}
		if line.Duration < 2.0 {
			t.Errorf("audio line %s: duration %v below floor", line.Key, line.Duration)
		}
	}
}

func TestCompose_LayoutFallback(t *testing.T) {
	cases := []struct {
		topic     string
		family    model.TopicFamily
		fallsBack bool
	}{
		{"Linear Equations", model.FamilyAlgebra, false},
		{"Triangles", model.FamilyGeometry, true},
		{"Coordinate Geometry", model.FamilyCoordinateGeometry, true},
		{"Trigonometry", model.FamilyTrigonometry, true},
		{"Probability", model.FamilyStatistics, true},
		{"Mensuration", model.FamilyGeneric, true},
	}
	for _, tc := range cases {
		prog := composeSample(t, tc.topic, time.Unix(1700000000, 0))
		if prog.Family != tc.family {
			t.Errorf("%s: expected family %s, got %s", tc.topic, tc.family, prog.Family)
		}
		if prog.FallsBack() != tc.fallsBack {
			t.Errorf("%s: expected FallsBack=%v", tc.topic, tc.fallsBack)
		}
		if prog.FallsBack() && prog.LayoutFamily != model.FamilyAlgebra {
			t.Errorf("%s: fallback layout should be algebra, got %s", tc.topic, prog.LayoutFamily)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	stamp := time.Unix(1700000000, 0)

	first, err := composeSample(t, "Linear Equations", stamp).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	second, err := composeSample(t, "Linear Equations", stamp).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if first != second {
		t.Error("identical inputs produced different program text")
	}
}

func TestRender_EmbedsProblemText(t *testing.T) {
	text, err := composeSample(t, "Linear Equations", time.Unix(1700000000, 0)).Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{
		"class LinearEquationsProblem1700000000(Scene):",
		"2x + 5 = 13",
		"x = 4",
		"Answer: x = 4",
		"AUDIO_DURATIONS",
		`"step_1_1700000000"`,
		"def construct(self):",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered program missing %q", want)
		}
	}
	if strings.Contains(text, NotImplementedMarker) {
		t.Error("algebra program should not carry the fallback marker")
	}
}

func TestRender_FallbackMarker(t *testing.T) {
	for _, topic := range []string{"Triangles", "Trigonometry", "Probability", "Mensuration"} {
		text, err := composeSample(t, topic, time.Unix(1700000000, 0)).Render()
		if err != nil {
			t.Fatalf("%s: Render failed: %v", topic, err)
		}
		if !strings.Contains(text, NotImplementedMarker) {
			t.Errorf("%s: expected fallback marker in program", topic)
		}
	}
}

func TestRender_QuotesHostileText(t *testing.T) {
	stamp := time.Unix(1700000000, 0)
	p := sampleProblem("algebra")
	p.Statement = `"); import os # breakout`
	narr := narration.Build(p, stamp)
	prog, err := Compose(p, narr, EntryPointName(p.Topic, stamp))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	text, err := prog.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(text, `\"); import os # breakout`) {
		t.Error("expected hostile statement to be escaped, not embedded raw")
	}
}

func TestRender_ControlCharacterFails(t *testing.T) {
	stamp := time.Unix(1700000000, 0)
	p := sampleProblem("algebra")
	p.SolutionSteps = []string{"step with \x00 byte"}
	narr := narration.Build(p, stamp)
	prog, err := Compose(p, narr, EntryPointName(p.Topic, stamp))
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if _, err := prog.Render(); !errors.Is(err, ErrUnsafeEmbedding) {
		t.Errorf("expected ErrUnsafeEmbedding, got %v", err)
	}
}
