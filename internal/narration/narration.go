// Package narration builds the keyed Hindi-English narration set for a math
// problem walkthrough. Construction is template substitution; the only
// non-deterministic input is the caller-supplied timestamp, used solely to
// keep keys unique across generation requests in the same process.
package narration

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vidyamath/api/internal/model"
)

// Set maps narration keys to narration text. It holds exactly one key per
// fixed semantic slot plus one key per solution step, in step order.
type Set struct {
	Stamp string

	// Fixed slot keys
	Intro         string
	Title         string
	Problem       string
	SolutionStart string
	Answer        string
	Conclusion    string

	// One key per solution step, in step order
	StepKeys []string

	Texts map[string]string
}

// Keys returns all narration keys: fixed slots first, then steps in order.
func (s *Set) Keys() []string {
	keys := []string{s.Intro, s.Title, s.Problem, s.SolutionStart}
	keys = append(keys, s.StepKeys...)
	return append(keys, s.Answer, s.Conclusion)
}

// Len returns the total number of narration entries.
func (s *Set) Len() int { return len(s.Texts) }

// stepSuffix returns the family-specific closing phrase for a step narration.
func stepSuffix(family model.TopicFamily) string {
	switch family {
	case model.FamilyAlgebra:
		return "। यहाँ हमने equation को simplify किया।"
	case model.FamilyGeometry:
		return "। geometric properties का use करके।"
	case model.FamilyTrigonometry:
		return "। trigonometric ratio use करके।"
	default:
		return "। carefully observe करें।"
	}
}

// Build produces the narration set for a problem. The timestamp disambiguates
// keys between concurrent generations; it never affects ordering or content.
func Build(p *model.Problem, stamp time.Time) *Set {
	ts := strconv.FormatInt(stamp.Unix(), 10)
	family := p.Family()

	s := &Set{
		Stamp:         ts,
		Intro:         "intro_" + ts,
		Title:         "title_" + ts,
		Problem:       "problem_" + ts,
		SolutionStart: "solution_start_" + ts,
		Answer:        "answer_" + ts,
		Conclusion:    "conclusion_" + ts,
		Texts:         make(map[string]string, len(p.SolutionSteps)+6),
	}

	s.Texts[s.Intro] = fmt.Sprintf("नमस्ते बच्चों! चलिए Grade %d का %s का एक प्रश्न हल करें।", p.Grade, p.Topic)
	s.Texts[s.Title] = fmt.Sprintf("आज का topic है - %s। इसमें हम step by step solution देखेंगे।", p.Topic)
	s.Texts[s.Problem] = "हमारा problem statement है: " + p.Statement
	s.Texts[s.SolutionStart] = "अब इसका solution देखते हैं step by step। ध्यान से follow करें।"
	s.Texts[s.Answer] = fmt.Sprintf("तो हमारा final answer है %s। यह correct answer है।", p.Answer)
	s.Texts[s.Conclusion] = fmt.Sprintf("बहुत अच्छे बच्चों! आज आपने सीखा कि %s के problems कैसे solve करते हैं। Practice करते रहें!", p.Topic)

	suffix := stepSuffix(family)
	for i, step := range p.SolutionSteps {
		key := fmt.Sprintf("step_%d_%s", i+1, ts)
		s.StepKeys = append(s.StepKeys, key)
		s.Texts[key] = fmt.Sprintf("Step %d: %s%s", i+1, step, suffix)
	}

	return s
}

// EstimateDuration estimates spoken duration in seconds for a narration
// string, roughly 0.4s per word with a 2s floor. Used when speech synthesis
// is unavailable or fails for an item.
func EstimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	d := float64(words) * 0.4
	if d < 2.0 {
		return 2.0
	}
	return d
}

// FallbackDuration is used when synthesis fails mid-item and no estimate is
// worth computing.
const FallbackDuration = 3.0
