// Package webhook receives GitHub webhook deliveries over HTTP, verifies
// their HMAC-SHA256 signatures, and normalizes the payloads into the small
// event vocabulary the monitor emits.
//
// The server binds an ephemeral loopback port so a forwarding tunnel can be
// pointed at it without port coordination. Every delivery is acknowledged
// with 200 once it passes validation, whether or not it produces an event;
// deliveries that fail validation get the 4xx responses GitHub expects.
package webhook
