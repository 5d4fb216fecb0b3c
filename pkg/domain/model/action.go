package model

// ActionResult is the uniform outcome of a tool execution
type ActionResult struct {
	Success bool
	Message string
	Extra   map[string]any
}

// Succeeded returns a successful ActionResult
func Succeeded(message string) *ActionResult {
	return &ActionResult{Success: true, Message: message}
}

// Declined returns a non-successful ActionResult for an expected business refusal
func Declined(message string) *ActionResult {
	return &ActionResult{Success: false, Message: message}
}

// WithExtra attaches a value to the result and returns it
func (r *ActionResult) WithExtra(key string, value any) *ActionResult {
	if r.Extra == nil {
		r.Extra = map[string]any{}
	}
	r.Extra[key] = value
	return r
}
