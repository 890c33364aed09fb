package target

import (
	"math"
	"strings"
)

// Targets describes how many Q&A pairs a span of text deserves.
// Invariant: MinAcceptable <= BaseGoal <= GenerationTarget, all >= 2.
type Targets struct {
	BaseGoal         int // 1 question per 10 words, floor of 2
	GenerationTarget int // BaseGoal plus a 25% over-generation buffer
	MinAcceptable    int // 80% of BaseGoal, floor of 2
}

// CountWords counts non-empty whitespace-delimited tokens. Every target
// comparison in the system (estimation, proportional sub-targets, checks
// against previously stored results) must use this definition.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Estimate derives yield targets from a word count.
func Estimate(wordCount int) Targets {
	baseGoal := int(math.Ceil(float64(wordCount) / 10.0))
	if baseGoal < 2 {
		baseGoal = 2
	}

	extra := int(math.Ceil(float64(baseGoal) * 0.25))
	if extra < 2 {
		extra = 2
	}

	minAcceptable := int(math.Ceil(float64(baseGoal) * 0.8))
	if minAcceptable < 2 {
		minAcceptable = 2
	}

	return Targets{
		BaseGoal:         baseGoal,
		GenerationTarget: baseGoal + extra,
		MinAcceptable:    minAcceptable,
	}
}

// Scale computes a proportional share of goal for a sub-span: it rounds up
// so the shares of a full partition always cover the parent goal.
func Scale(goal, subWords, totalWords int) int {
	if totalWords <= 0 {
		return goal
	}
	return int(math.Ceil(float64(goal) * float64(subWords) / float64(totalWords)))
}
