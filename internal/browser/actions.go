package browser

import (
	"context"
	"strings"

	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
)

// TypeInto brings the element's value to value by typing only what is
// missing. When the current value is not a prefix of value the field is
// overwritten first.
func TypeInto(ctx context.Context, el ports.ElementRef, value string) error {
	const op = "TypeInto"

	if el == nil {
		return apperr.InvalidArgumentError(op, "element", apperr.ErrNoMatch)
	}

	raw, err := el.Evaluate(ctx, currentValueScript, nil)
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "read_value_failed",
			apperr.MetaStage:  apperr.StageEvaluate,
		})
	}

	current, _ := raw.(string)
	suffix, reset := typingPlan(current, value)

	if reset {
		if _, err := el.Evaluate(ctx, setValueScript, ""); err != nil {
			return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
				apperr.MetaReason: "clear_value_failed",
				apperr.MetaStage:  apperr.StageEvaluate,
			})
		}
	}

	if suffix == "" {
		return nil
	}

	if err := el.Focus(ctx); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "focus_failed",
			apperr.MetaStage:  apperr.StageInteraction,
		})
	}

	if err := el.Type(ctx, suffix); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "type_failed",
			apperr.MetaStage:  apperr.StageInteraction,
		})
	}

	return nil
}

// typingPlan returns the text still to type and whether the field must be
// cleared first.
func typingPlan(current, want string) (suffix string, reset bool) {
	if strings.HasPrefix(want, current) {
		return want[len(current):], false
	}

	return want, true
}

// SetValue assigns value directly and fires input and change events.
func SetValue(ctx context.Context, el ports.ElementRef, value string) error {
	const op = "SetValue"

	if el == nil {
		return apperr.InvalidArgumentError(op, "element", apperr.ErrNoMatch)
	}

	if err := el.Focus(ctx); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "focus_failed",
			apperr.MetaStage:  apperr.StageInteraction,
		})
	}

	if _, err := el.Evaluate(ctx, setValueScript, value); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "set_value_failed",
			apperr.MetaStage:  apperr.StageEvaluate,
		})
	}

	return nil
}
