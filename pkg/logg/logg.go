package logg

// Structured field names shared by every layer's logger.
const (
	Layer     = "layer"
	Operation = "op"
	Selector  = "selector"
	Path      = "path"
	Frame     = "frame_anchor"
	URL       = "url"
	SessionID = "session_id"
	Strategy  = "strategy"
	Reason    = "reason"
	Attempt   = "attempt"
)
