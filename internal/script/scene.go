// Package script composes the textual animation program for a math problem.
// Composition builds a small tree of typed scene instructions which a
// dedicated formatter serializes to the renderer's source form; user text
// only ever enters the program through the quoting rule in escape.go.
package script

import "github.com/vidyamath/api/internal/model"

// ColorScheme holds the manim color identifiers used by the generated scene.
// Values are raw identifiers from the renderer's namespace, never user input.
type ColorScheme struct {
	Text      string
	Highlight string
	Step      string
	Answer    string
	Formula   string
}

// DefaultColors matches the classroom whiteboard look of the original scenes.
var DefaultColors = ColorScheme{
	Text:      "BLACK",
	Highlight: "BLUE",
	Step:      "BLUE_D",
	Answer:    "GREEN_D",
	Formula:   "PURPLE",
}

// AudioLine is one narration entry embedded in the program: the key resolves
// to an audio artifact at render time, the duration is the estimated wait.
type AudioLine struct {
	Key      string
	Text     string
	Duration float64
}

// Instruction is one declarative scene step.
type Instruction interface{ instruction() }

// ShowTitle writes the title card and plays the intro and title narrations.
type ShowTitle struct {
	Text           string
	IntroNarration string
	TitleNarration string
}

// ShowStatement transforms the title into the problem statement.
type ShowStatement struct {
	Text      string
	Narration string
}

// BeginSolution opens the calculation area.
type BeginSolution struct {
	Narration string
}

// ShowStep writes one solution step, narrated in order.
type ShowStep struct {
	Index     int // 1-based
	Text      string
	Narration string
}

// ShowAnswer writes the boxed final answer.
type ShowAnswer struct {
	Text      string
	Narration string
}

// Conclude plays the closing narration.
type Conclude struct {
	Narration string
}

func (ShowTitle) instruction()     {}
func (ShowStatement) instruction() {}
func (BeginSolution) instruction() {}
func (ShowStep) instruction()      {}
func (ShowAnswer) instruction()    {}
func (Conclude) instruction()      {}

// Program is the composed intermediate representation of one scene. It is a
// pure value: serializing the same program yields byte-identical text.
type Program struct {
	EntryPoint string
	Family     model.TopicFamily

	// LayoutFamily is the family whose layout the program actually uses.
	// It differs from Family when the requested family has no layout of its
	// own and falls back to the algebra one; the serialized program carries
	// a visible marker in that case.
	LayoutFamily model.TopicFamily

	Colors       ColorScheme
	Audio        []AudioLine
	Instructions []Instruction
}

// FallsBack reports whether the program uses a borrowed layout.
func (p *Program) FallsBack() bool { return p.LayoutFamily != p.Family }
