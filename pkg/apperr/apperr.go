package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason   = "reason"
	MetaStage    = "stage"
	MetaField    = "field"
	MetaSelector = "selector"
	MetaPath     = "path"
	MetaFrame    = "frame_anchor"
	MetaURL      = "url"

	StageBrowser     = "browser"
	StageNavigation  = "navigation"
	StageInteraction = "interaction"
	StageLocate      = "locate"
	StageFrame       = "frame"
	StageEvaluate    = "evaluate"

	CodeInternal        = "internal"
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeDetachedFrame   = "detached_frame"
	CodeTimeout         = "timeout"
	CodeBrowserNotReady = "browser_not_ready"
	CodeActionFailed    = "action_failed"
)

var (
	// ErrNoMatch is wrapped by engine adapters when a bounded wait ends
	// without a matching node.
	ErrNoMatch = errors.New("no element matched")

	// ErrStaleElement is wrapped by engine adapters when a node reference
	// outlived its document or was removed.
	ErrStaleElement = errors.New("element is detached from its document")
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, errors.New(reason), map[string]any{
		MetaReason: reason,
	})
}

func InvalidArgumentError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_argument",
	})
}

// NotFoundError reports that path did not resolve; path names the deepest
// segment attempted.
func NotFoundError(op, path string, err error) error {
	return Wrap(op, CodeNotFound, fmt.Errorf("could not find element %q: %w", path, err), map[string]any{
		MetaReason: "not_found",
		MetaPath:   path,
		MetaStage:  StageLocate,
	})
}

func DetachedFrameError(op, anchor string) error {
	return Wrap(op, CodeDetachedFrame, fmt.Errorf("frame %q has no content document", anchor), map[string]any{
		MetaReason: "detached_frame",
		MetaFrame:  anchor,
		MetaStage:  StageFrame,
	})
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		if e.Code == code {
			return true
		}

		err = e.Err
	}

	return false
}

func IsInvalidArgument(err error) bool { return HasCode(err, CodeInvalidArgument) }

func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

func IsDetachedFrame(err error) bool { return HasCode(err, CodeDetachedFrame) }

// IsNoMatch reports whether err means "nothing matched yet": an engine wait
// that ran out, a stale node, or a NotFoundError built from either.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch) || errors.Is(err, ErrStaleElement) || IsNotFound(err)
}
