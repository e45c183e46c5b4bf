// Package event defines the normalized events emitted while monitoring a
// pull request. Every webhook delivery that survives filtering is reduced to
// one of three variants: a CI status change, a review, or a comment.
package event

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the event variants on the wire.
type Kind string

// Kind values.
const (
	KindCI      Kind = "ci"
	KindReview  Kind = "review"
	KindComment Kind = "comment"
)

// CheckStatus represents the lifecycle state of a CI check.
type CheckStatus string

// CheckStatus values.
const (
	CheckQueued     CheckStatus = "queued"
	CheckInProgress CheckStatus = "in_progress"
	CheckCompleted  CheckStatus = "completed"
)

// CheckConclusion represents the terminal outcome of a CI check.
// ConclusionNone means the check has not concluded (or the upstream value was
// unrecognized) and is encoded as JSON null.
type CheckConclusion string

// CheckConclusion values.
const (
	ConclusionSuccess        CheckConclusion = "success"
	ConclusionFailure        CheckConclusion = "failure"
	ConclusionCancelled      CheckConclusion = "cancelled"
	ConclusionSkipped        CheckConclusion = "skipped"
	ConclusionNeutral        CheckConclusion = "neutral"
	ConclusionTimedOut       CheckConclusion = "timed_out"
	ConclusionActionRequired CheckConclusion = "action_required"
	ConclusionNone           CheckConclusion = ""
)

// ReviewAction represents what a reviewer did.
type ReviewAction string

// ReviewAction values.
const (
	ReviewApproved         ReviewAction = "approved"
	ReviewChangesRequested ReviewAction = "changes_requested"
	ReviewCommented        ReviewAction = "commented"
	ReviewDismissed        ReviewAction = "dismissed"
)

// Event is the closed union of monitor events. The concrete types are
// CIEvent, ReviewEvent and CommentEvent.
type Event interface {
	Kind() Kind
}

// CIEvent reports a CI check (run or suite) state change on the target PR.
type CIEvent struct {
	Check      string
	Status     CheckStatus
	Conclusion CheckConclusion
}

// Kind implements Event.
func (CIEvent) Kind() Kind { return KindCI }

// MarshalJSON encodes the event with its discriminator. An absent conclusion
// is encoded as null, matching the upstream payload convention.
func (e CIEvent) MarshalJSON() ([]byte, error) {
	wire := struct {
		Event      Kind             `json:"event"`
		Check      string           `json:"check"`
		Status     CheckStatus      `json:"status"`
		Conclusion *CheckConclusion `json:"conclusion"`
	}{
		Event:  KindCI,
		Check:  e.Check,
		Status: e.Status,
	}
	if e.Conclusion != ConclusionNone {
		wire.Conclusion = &e.Conclusion
	}
	return json.Marshal(wire)
}

// ReviewEvent reports a review submitted on (or dismissed from) the target PR.
type ReviewEvent struct {
	PR     int
	User   string
	Action ReviewAction
}

// Kind implements Event.
func (ReviewEvent) Kind() Kind { return KindReview }

// MarshalJSON encodes the event with its discriminator.
func (e ReviewEvent) MarshalJSON() ([]byte, error) {
	wire := struct {
		Event  Kind         `json:"event"`
		PR     int          `json:"pr"`
		User   string       `json:"user"`
		Action ReviewAction `json:"action"`
	}{KindReview, e.PR, e.User, e.Action}
	return json.Marshal(wire)
}

// CommentEvent reports a comment on the target PR or on one of its linked
// issues. Exactly one of PR and Issue is set; use NewPRComment or
// NewIssueComment to preserve that invariant.
type CommentEvent struct {
	PR    *int
	Issue *int
	User  string
	Body  string
}

// NewPRComment builds a CommentEvent attached to the target PR.
func NewPRComment(pr int, user, body string) CommentEvent {
	return CommentEvent{PR: &pr, User: user, Body: body}
}

// NewIssueComment builds a CommentEvent attached to a linked issue.
func NewIssueComment(issue int, user, body string) CommentEvent {
	return CommentEvent{Issue: &issue, User: user, Body: body}
}

// Kind implements Event.
func (CommentEvent) Kind() Kind { return KindComment }

// Validate reports whether the pr/issue invariant holds.
func (e CommentEvent) Validate() error {
	if (e.PR == nil) == (e.Issue == nil) {
		return fmt.Errorf("comment event must have exactly one of pr/issue set")
	}
	return nil
}

// MarshalJSON encodes the event with its discriminator. Only the populated
// pr/issue field appears in the output.
func (e CommentEvent) MarshalJSON() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	wire := struct {
		Event Kind   `json:"event"`
		PR    *int   `json:"pr,omitempty"`
		Issue *int   `json:"issue,omitempty"`
		User  string `json:"user"`
		Body  string `json:"body"`
	}{KindComment, e.PR, e.Issue, e.User, e.Body}
	return json.Marshal(wire)
}
