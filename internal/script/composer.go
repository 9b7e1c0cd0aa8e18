package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/narration"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// EntryPointName derives a unique, syntactically valid scene identifier from
// the problem topic and a timestamp. A render invocation targets exactly one
// named entry point, so the name must not collide across concurrent requests.
func EntryPointName(topic string, stamp time.Time) string {
	var b strings.Builder
	upperNext := true
	for _, r := range topic {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			if upperNext && r >= 'a' && r <= 'z' {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			upperNext = false
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
			upperNext = true
		default:
			upperNext = true
		}
	}
	name := b.String()
	if name == "" {
		name = "Math"
	}
	return name + "Problem" + strconv.FormatInt(stamp.Unix(), 10)
}

// Compose builds the scene program for a problem. It is pure: no I/O, and
// identical inputs produce an identical program.
//
// Only the algebra family has a layout of its own; every other family
// currently borrows it. The fallback is recorded on the program and surfaces
// as a marker in the serialized text rather than being silently duplicated.
func Compose(p *model.Problem, narr *narration.Set, entryPoint string) (*Program, error) {
	if !identifierRe.MatchString(entryPoint) {
		return nil, fmt.Errorf("entry point %q is not a valid identifier", entryPoint)
	}

	family := p.Family()
	layout := family
	switch family {
	case model.FamilyAlgebra:
		// native layout
	default:
		layout = model.FamilyAlgebra
	}

	prog := &Program{
		EntryPoint:   entryPoint,
		Family:       family,
		LayoutFamily: layout,
		Colors:       DefaultColors,
	}

	for _, key := range narr.Keys() {
		text := narr.Texts[key]
		prog.Audio = append(prog.Audio, AudioLine{
			Key:      key,
			Text:     text,
			Duration: narration.EstimateDuration(text),
		})
	}

	prog.Instructions = append(prog.Instructions,
		ShowTitle{
			Text:           fmt.Sprintf("%s Problem - Grade %d", p.Topic, p.Grade),
			IntroNarration: narr.Intro,
			TitleNarration: narr.Title,
		},
		ShowStatement{Text: p.Statement, Narration: narr.Problem},
		BeginSolution{Narration: narr.SolutionStart},
	)
	for i, step := range p.SolutionSteps {
		prog.Instructions = append(prog.Instructions, ShowStep{
			Index:     i + 1,
			Text:      step,
			Narration: narr.StepKeys[i],
		})
	}
	prog.Instructions = append(prog.Instructions,
		ShowAnswer{Text: p.Answer, Narration: narr.Answer},
		Conclude{Narration: narr.Conclusion},
	)

	return prog, nil
}
