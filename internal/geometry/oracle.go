// Package geometry classifies element boxes from data the page reports. It
// never talks to the page itself.
package geometry

import (
	"strconv"
	"strings"

	"ui-probe/internal/entity"
)

// Classify reports whether an element is hidden by style or size and whether
// its box lies outside the viewport. The two answers are independent.
func Classify(box entity.Rect, style entity.Style, viewport entity.Size) entity.Classification {
	var c entity.Classification

	switch {
	case style.Visibility == "hidden", style.Display == "none", style.Opacity == "0":
		c.Hidden = true
		c.Reason = entity.ReasonHiddenByStyle
	case box.Width == 0:
		c.Hidden = true
		c.Reason = entity.ReasonZeroSize
	}

	c.Offscreen = box.Bottom < 0 || box.Top > viewport.Height || box.Right < 0 || box.Left > viewport.Width
	if c.Offscreen && c.Reason == entity.ReasonNone {
		c.Reason = entity.ReasonOffscreen
	}

	return c
}

// ZIndex parses a computed z-index. "auto", empty and anything unparsable
// count as 0.
func ZIndex(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}

	return n
}

// IsPositioned reports whether position takes the element out of normal flow
// in a way that can cover other content.
func IsPositioned(position string) bool {
	return position == "absolute" || position == "fixed"
}
