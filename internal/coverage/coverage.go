// Package coverage drives generation over a chunk of text, subdividing it
// when a whole-chunk attempt underperforms. Larger chunks are preferred —
// splitting loses cross-reference context — so finer strategies run only
// when the coarser one falls short of the target.
package coverage

import (
	"context"
	"log/slog"

	"github.com/dgallion1/qaforge/internal/qa"
	"github.com/dgallion1/qaforge/internal/segment"
	"github.com/dgallion1/qaforge/internal/target"
)

// Generator is the backend attempt loop: it requests count Q&A pairs for
// text and may return fewer or more.
type Generator interface {
	Generate(ctx context.Context, text string, count int) ([]qa.Item, error)
}

// Controller subdivides chunks until an acceptable yield is reached or all
// strategies are exhausted.
type Controller struct {
	gen Generator
	log *slog.Logger
}

func New(gen Generator, log *slog.Logger) *Controller {
	return &Controller{gen: gen, log: log}
}

// Cover generates Q&A pairs for text, aiming for goal items. The chunk is
// first attempted whole with a target derived from its own word count; if
// the yield falls short of goal, progressively finer segmentations run
// with proportionally scaled sub-targets, each level starting its own
// accumulation. Sub-chunk failures are logged and contribute zero items.
// The return value is the largest accumulation any level achieved — never
// fewer items than the best single attempt — even when it is below goal.
func (c *Controller) Cover(ctx context.Context, text string, goal int) []qa.Item {
	words := target.CountWords(text)
	t := target.Estimate(words)

	best, err := c.gen.Generate(ctx, text, t.GenerationTarget)
	if err != nil {
		c.log.Warn("whole-chunk attempt failed", "error", err)
		best = nil
	}
	c.log.Info("whole-chunk attempt", "yield", len(best), "goal", goal)
	if len(best) >= goal {
		return best
	}

	for _, strategy := range segment.Fallbacks {
		subs := segment.Split(text, strategy)
		if len(subs) <= 1 {
			continue
		}
		c.log.Info("splitting chunk", "strategy", strategy.String(), "sub_chunks", len(subs))

		items := c.coverSubs(ctx, subs, goal, words, strategy)
		if len(items) >= goal {
			c.log.Info("target met after split",
				"strategy", strategy.String(), "yield", len(items), "goal", goal)
			return items
		}
		// Underperforming level: keep it only if it beat the best so far.
		if len(items) > len(best) {
			best = items
		}
	}

	c.log.Info("strategies exhausted", "yield", len(best), "goal", goal)
	return best
}

// coverSubs runs one attempt per sub-chunk with a target scaled to its
// share of the parent's words, accumulating yields and ignoring errors.
func (c *Controller) coverSubs(ctx context.Context, subs []string, goal, parentWords int, strategy segment.Strategy) []qa.Item {
	var items []qa.Item
	for i, sub := range subs {
		subWords := target.CountWords(sub)
		subGoal := target.Scale(goal, subWords, parentWords)
		c.log.Info("processing sub-chunk",
			"strategy", strategy.String(),
			"index", i+1, "of", len(subs),
			"words", subWords, "target", subGoal)

		got, err := c.gen.Generate(ctx, sub, subGoal)
		if err != nil {
			c.log.Warn("sub-chunk attempt failed",
				"strategy", strategy.String(), "index", i+1, "error", err)
			continue
		}
		items = append(items, got...)
	}
	return items
}
