package script

import (
	"fmt"
	"strconv"
	"strings"
)

// NotImplementedMarker appears in the serialized program whenever the
// requested topic family has no layout of its own.
const NotImplementedMarker = "layout not implemented"

// Render serializes the program to manim Python source. The output is a
// self-contained scene: narration is resolved through the embedded audio key
// table against wav files the render job places in AUDIO_DIR.
func (p *Program) Render() (string, error) {
	var b strings.Builder

	b.WriteString("from manim import *\n")
	b.WriteString("import os\n\n")

	if p.FallsBack() {
		fmt.Fprintf(&b, "# %s %s; using the %s layout\n\n", p.Family, NotImplementedMarker, p.LayoutFamily)
	}

	fmt.Fprintf(&b, "class %s(Scene):\n", p.EntryPoint)
	b.WriteString("    AUDIO_DIR = \"audio\"\n\n")

	fmt.Fprintf(&b, "    TEXT_COLOR = %s\n", p.Colors.Text)
	fmt.Fprintf(&b, "    HIGHLIGHT_COLOR = %s\n", p.Colors.Highlight)
	fmt.Fprintf(&b, "    STEP_COLOR = %s\n", p.Colors.Step)
	fmt.Fprintf(&b, "    ANSWER_COLOR = %s\n", p.Colors.Answer)
	fmt.Fprintf(&b, "    FORMULA_COLOR = %s\n\n", p.Colors.Formula)

	b.WriteString("    AUDIO_DURATIONS = {\n")
	for _, line := range p.Audio {
		key, err := QuoteString(line.Key)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "        %s: %s,\n", key, strconv.FormatFloat(line.Duration, 'f', 1, 64))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    def play_audio_and_wait(self, name):\n")
	b.WriteString("        path = os.path.join(self.AUDIO_DIR, name + \".wav\")\n")
	b.WriteString("        if os.path.exists(path):\n")
	b.WriteString("            self.add_sound(path, gain=0)\n")
	b.WriteString("        self.wait(self.AUDIO_DURATIONS.get(name, 3.0))\n")
	b.WriteString("        self.wait(0.8)\n\n")

	b.WriteString("    def construct(self):\n")
	b.WriteString("        self.camera.background_color = WHITE\n\n")

	for _, ins := range p.Instructions {
		if err := writeInstruction(&b, ins); err != nil {
			return "", err
		}
	}

	b.WriteString("        self.wait(2.0)\n")

	return b.String(), nil
}

func writeInstruction(b *strings.Builder, ins Instruction) error {
	switch v := ins.(type) {
	case ShowTitle:
		text, err := QuoteString(v.Text)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "        title = Text(%s, font=\"Arial Unicode MS\", color=self.TEXT_COLOR, font_size=32)\n", text)
		b.WriteString("        self.play(Write(title), run_time=1)\n")
		b.WriteString("        self.wait(0.5)\n")
		writeNarration(b, v.IntroNarration)
		writeNarration(b, v.TitleNarration)

	case ShowStatement:
		text, err := QuoteString(v.Text)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "        problem_text = Text(%s, font=\"Arial Unicode MS\", color=self.TEXT_COLOR, font_size=24).scale(0.8)\n", text)
		b.WriteString("        self.play(Transform(title, problem_text), run_time=1)\n")
		b.WriteString("        self.wait(0.5)\n")
		writeNarration(b, v.Narration)

	case BeginSolution:
		b.WriteString("        calc_box = Rectangle(width=6.2, height=7.2, fill_color=WHITE, fill_opacity=0.15, stroke_color=self.STEP_COLOR, stroke_width=2)\n")
		b.WriteString("        calc_box.to_edge(RIGHT, buff=0.1)\n")
		b.WriteString("        self.play(FadeOut(title))\n")
		b.WriteString("        self.play(Create(calc_box), run_time=1)\n")
		b.WriteString("        steps = VGroup()\n")
		writeNarration(b, v.Narration)

	case ShowStep:
		text, err := QuoteString(v.Text)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "        try:\n            step_%d = MathTex(%s, font_size=24, color=self.STEP_COLOR)\n", v.Index, text)
		fmt.Fprintf(b, "        except Exception:\n            step_%d = Text(%s, font=\"Arial Unicode MS\", font_size=20, color=self.STEP_COLOR)\n", v.Index, text)
		fmt.Fprintf(b, "        steps.add(step_%d)\n", v.Index)
		b.WriteString("        steps.arrange(DOWN, aligned_edge=LEFT, buff=0.3)\n")
		b.WriteString("        steps.move_to(calc_box.get_center())\n")
		fmt.Fprintf(b, "        self.play(Write(step_%d), run_time=1)\n", v.Index)
		writeNarration(b, v.Narration)

	case ShowAnswer:
		text, err := QuoteString("Answer: " + v.Text)
		if err != nil {
			return err
		}
		b.WriteString("        self.play(FadeOut(steps, calc_box))\n")
		fmt.Fprintf(b, "        answer_text = Text(%s, font=\"Arial Unicode MS\", font_size=28, color=self.ANSWER_COLOR)\n", text)
		b.WriteString("        answer_box = SurroundingRectangle(answer_text, color=self.ANSWER_COLOR, buff=0.1)\n")
		b.WriteString("        self.play(Write(answer_text), run_time=1)\n")
		b.WriteString("        self.play(Create(answer_box), run_time=0.5)\n")
		writeNarration(b, v.Narration)

	case Conclude:
		writeNarration(b, v.Narration)

	default:
		return fmt.Errorf("unknown instruction %T", ins)
	}
	return nil
}

func writeNarration(b *strings.Builder, key string) {
	// Narration keys are generated identifiers, never user text; quoting
	// cannot fail on them.
	quoted, _ := QuoteString(key)
	fmt.Fprintf(b, "        self.play_audio_and_wait(%s)\n", quoted)
}
