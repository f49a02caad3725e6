// Package tokenware is the per-request bearer-token filter. It extracts a
// credential from the incoming request, runs the cryptographic check and the
// store-backed check, and either attaches the authenticated principal to the
// request or rejects it with a single generic 401. Requests carrying no
// credential pass through untouched.
package tokenware
