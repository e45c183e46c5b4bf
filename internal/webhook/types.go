package webhook

import "github.com/mattjoyce/prmon/internal/event"

// HTTP headers set by GitHub on webhook deliveries.
const (
	HeaderEvent     = "X-GitHub-Event"
	HeaderSignature = "X-Hub-Signature-256"
	HeaderDelivery  = "X-GitHub-Delivery"
)

// EventSink receives each normalized event produced by a delivery.
type EventSink func(ev event.Event)

// okResponse is the JSON body for accepted deliveries.
type okResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the JSON body for rejected deliveries.
type ErrorResponse struct {
	Error string `json:"error"`
}
