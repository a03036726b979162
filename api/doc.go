// Package api wraps the STM façade in a uniform response-envelope surface:
// every operation returns a result carrying Success, an error description and
// a timestamp instead of propagating errors past the module boundary. It is
// intended for embedding behind transports (HTTP handlers, RPC shims) that
// want a single serializable result shape, and adds conversation export in
// JSON and CSV form.
package api
