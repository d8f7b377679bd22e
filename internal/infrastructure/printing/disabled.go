package printing

import "context"

// DisabledRenderer is the stand-in used when PDF rendering is turned off in
// configuration. Every render attempt fails with a RenderError so callers
// surface a clear message instead of hanging on a missing browser.
type DisabledRenderer struct{}

// NewDisabledRenderer creates a renderer that rejects all requests.
func NewDisabledRenderer() *DisabledRenderer {
	return &DisabledRenderer{}
}

// Render always fails.
func (r *DisabledRenderer) Render(_ context.Context, _ *RenderRequest) (*RenderResult, error) {
	return nil, NewRenderError(ErrCodeRenderFailed, "PDF rendering is disabled", nil)
}

// Close is a no-op.
func (r *DisabledRenderer) Close() error {
	return nil
}
