package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SelectorPath is resolved segment by segment, each segment inside the shadow
// root (or element) produced by the previous one.
type SelectorPath []string

const pathSeparator = " >> "

func (p SelectorPath) String() string {
	return strings.Join(p, pathSeparator)
}

// Prefix returns the path up to and including segment i.
func (p SelectorPath) Prefix(i int) SelectorPath {
	if i >= len(p) {
		return p
	}

	return p[:i+1]
}

type MatchState string

const (
	MatchAttached MatchState = "attached"
	MatchVisible  MatchState = "visible"
)

// WaitOptions bounds a single engine wait. A zero Timeout defers to the
// engine default.
type WaitOptions struct {
	Timeout time.Duration
	State   MatchState
}

type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Center() Point {
	return Point{
		X: (r.Left + r.Right) / 2,
		Y: (r.Top + r.Bottom) / 2,
	}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style is the computed style subset the visibility checks need. Values are
// the raw CSS strings reported by the page.
type Style struct {
	Visibility string `json:"visibility"`
	Display    string `json:"display"`
	Opacity    string `json:"opacity"`
	Position   string `json:"position"`
	ZIndex     string `json:"zIndex"`
}

// ElementSnapshot is what the page reports about a single element in one
// round trip.
type ElementSnapshot struct {
	Rect     Rect  `json:"rect"`
	Style    Style `json:"style"`
	Viewport Size  `json:"viewport"`
}

// StackEntry describes one element of an elements-at-point stack, topmost
// first.
type StackEntry struct {
	Tag          string `json:"tag"`
	ID           string `json:"id"`
	IsTarget     bool   `json:"isTarget"`
	InsideTarget bool   `json:"insideTarget"`
	Position     string `json:"position"`
	ZIndex       string `json:"zIndex"`
}

type HitTest struct {
	// TopContained is true when the topmost element at the point is the
	// target or one of its descendants.
	TopContained bool         `json:"topContained"`
	Stack        []StackEntry `json:"stack"`
}

type Classification struct {
	Hidden    bool
	Offscreen bool
	Reason    Reason
}

type Reason string

const (
	ReasonNone          Reason = ""
	ReasonHiddenByStyle Reason = "hidden-by-style"
	ReasonZeroSize      Reason = "zero-size"
	ReasonOffscreen     Reason = "off-screen"
	ReasonOccluded      Reason = "occluded-by-higher-element"
	ReasonNotFound      Reason = "not-found"
)

type Verdict struct {
	Visible bool
	Reason  Reason
	// Blocker names the element that occluded the target, if any.
	Blocker string
}

// Strategy selects how the hit-test stack is judged.
type Strategy string

const (
	// StrategyStackScan fails only on positioned or higher z-index elements
	// painted above the target.
	StrategyStackScan Strategy = "stack_scan"
	// StrategyContainment fails whenever the topmost element at the center
	// point is not the target or inside it.
	StrategyContainment Strategy = "containment"
)

func (s Strategy) Valid() bool {
	return s == StrategyStackScan || s == StrategyContainment
}

type ClickEvent struct {
	Timestamp   time.Time
	X           float64
	Y           float64
	Target      string
	TargetID    string
	TargetClass string
}

type DialogEvent struct {
	Type         string
	Message      string
	DefaultValue string
}

type ConsoleEvent struct {
	Type string
	Text string
}

type SubscriptionID = uuid.UUID

// LocateOptions carries the optional inputs of a locate call.
type LocateOptions struct {
	// FrameAnchor selects an element in the root whose content document (or
	// shadow root) becomes the search context for the first segment.
	FrameAnchor    string
	SegmentTimeout time.Duration
}
