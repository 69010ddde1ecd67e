package visibility

import (
	"fmt"

	"ui-probe/internal/entity"
	"ui-probe/internal/geometry"
)

// judge turns a hit test into a verdict. target is the element's own
// computed style.
func judge(strategy entity.Strategy, target entity.Style, hit entity.HitTest) entity.Verdict {
	switch strategy {
	case entity.StrategyContainment:
		if !hit.TopContained {
			return entity.Verdict{Reason: entity.ReasonOccluded, Blocker: topmost(hit.Stack)}
		}
	default:
		if blocker, ok := stackBlocker(hit.Stack, target); ok {
			return entity.Verdict{Reason: entity.ReasonOccluded, Blocker: describe(blocker)}
		}
	}

	return entity.Verdict{Visible: true}
}

// stackBlocker scans the elements painted above the target and returns the
// first one that is absolutely or fixed positioned, or stacked at a higher
// z-index than the target. The target's own descendants never block it.
// When the target is missing from the stack, every entry is above it.
func stackBlocker(stack []entity.StackEntry, target entity.Style) (entity.StackEntry, bool) {
	targetZ := geometry.ZIndex(target.ZIndex)

	for _, entry := range stack {
		if entry.IsTarget {
			break
		}

		if entry.InsideTarget {
			continue
		}

		if geometry.IsPositioned(entry.Position) || geometry.ZIndex(entry.ZIndex) > targetZ {
			return entry, true
		}
	}

	return entity.StackEntry{}, false
}

func topmost(stack []entity.StackEntry) string {
	if len(stack) == 0 {
		return ""
	}

	return describe(stack[0])
}

func describe(e entity.StackEntry) string {
	if e.ID != "" {
		return fmt.Sprintf("%s#%s", e.Tag, e.ID)
	}

	return e.Tag
}
