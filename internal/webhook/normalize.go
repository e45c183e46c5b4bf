package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattjoyce/prmon/internal/event"
	"github.com/mattjoyce/prmon/internal/links"
)

// SubscribedEvents is the fixed list of webhook event types the monitor
// subscribes the forwarder to. It matches the normalizer table exactly.
var SubscribedEvents = []string{
	"check_run",
	"check_suite",
	"pull_request_review",
	"pull_request_review_comment",
	"issue_comment",
}

// normalizeFunc filters one upstream payload shape against the monitored PR
// and its linked issues. A nil event with a nil error means the delivery was
// valid but not relevant.
type normalizeFunc func(payload []byte, targetPR int, linked links.Set) (event.Event, error)

var normalizers = map[string]normalizeFunc{
	"check_run":                   normalizeCheckRun,
	"check_suite":                 normalizeCheckSuite,
	"pull_request_review":         normalizeReview,
	"pull_request_review_comment": normalizeReviewComment,
	"issue_comment":               normalizeIssueComment,
}

// Dispatch routes a delivery to the normalizer for its event type. Unknown
// event types return (nil, nil) so future webhook types never crash the
// server. A non-nil error means the payload did not match its declared shape.
func Dispatch(eventType string, payload []byte, targetPR int, linked links.Set) (event.Event, error) {
	fn, ok := normalizers[eventType]
	if !ok {
		return nil, nil
	}
	return fn(payload, targetPR, linked)
}

func normalizeCheckRun(payload []byte, targetPR int, _ links.Set) (event.Event, error) {
	var p checkRunPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("check_run payload: %w", err)
	}
	if !referencesPR(p.CheckRun.PullRequests, targetPR) {
		return nil, nil
	}
	return event.CIEvent{
		Check:      p.CheckRun.Name,
		Status:     mapCheckStatus(p.CheckRun.Status),
		Conclusion: mapConclusion(p.CheckRun.Conclusion),
	}, nil
}

func normalizeCheckSuite(payload []byte, targetPR int, _ links.Set) (event.Event, error) {
	var p checkSuitePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("check_suite payload: %w", err)
	}
	if !referencesPR(p.CheckSuite.PullRequests, targetPR) {
		return nil, nil
	}
	name := p.CheckSuite.App.Name
	if name == "" {
		name = "check-suite"
	}
	return event.CIEvent{
		Check:      name,
		Status:     mapCheckStatus(p.CheckSuite.Status),
		Conclusion: mapConclusion(p.CheckSuite.Conclusion),
	}, nil
}

func normalizeReview(payload []byte, targetPR int, _ links.Set) (event.Event, error) {
	var p reviewPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("pull_request_review payload: %w", err)
	}
	if p.Action != "submitted" && p.Action != "dismissed" {
		return nil, nil
	}
	if p.PullRequest.Number != targetPR {
		return nil, nil
	}
	// Dismissal overrides whatever state the review carried.
	action := event.ReviewDismissed
	if p.Action == "submitted" {
		action = mapReviewState(p.Review.State)
	}
	return event.ReviewEvent{
		PR:     targetPR,
		User:   p.Review.User.Login,
		Action: action,
	}, nil
}

func normalizeReviewComment(payload []byte, targetPR int, _ links.Set) (event.Event, error) {
	var p reviewCommentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("pull_request_review_comment payload: %w", err)
	}
	if p.Action != "created" || p.PullRequest.Number != targetPR {
		return nil, nil
	}
	return event.NewPRComment(targetPR, p.Comment.User.Login, p.Comment.Body), nil
}

func normalizeIssueComment(payload []byte, targetPR int, linked links.Set) (event.Event, error) {
	var p issueCommentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("issue_comment payload: %w", err)
	}
	if p.Action != "created" {
		return nil, nil
	}
	switch {
	case p.Issue.PullRequest != nil && p.Issue.Number == targetPR:
		return event.NewPRComment(targetPR, p.Comment.User.Login, p.Comment.Body), nil
	case p.Issue.PullRequest == nil && linked.Has(p.Issue.Number):
		return event.NewIssueComment(p.Issue.Number, p.Comment.User.Login, p.Comment.Body), nil
	}
	return nil, nil
}

func referencesPR(prs []prRef, targetPR int) bool {
	for _, pr := range prs {
		if pr.Number == targetPR {
			return true
		}
	}
	return false
}

// mapCheckStatus lowers an upstream check status into the enum. Unrecognized
// values fall back to in_progress; mis-reporting an unknown status as still
// running beats mis-reporting it as terminal.
func mapCheckStatus(s string) event.CheckStatus {
	switch strings.ToLower(s) {
	case "queued":
		return event.CheckQueued
	case "in_progress":
		return event.CheckInProgress
	case "completed":
		return event.CheckCompleted
	}
	return event.CheckInProgress
}

func mapConclusion(c *string) event.CheckConclusion {
	if c == nil {
		return event.ConclusionNone
	}
	switch strings.ToLower(*c) {
	case "success":
		return event.ConclusionSuccess
	case "failure":
		return event.ConclusionFailure
	case "cancelled":
		return event.ConclusionCancelled
	case "skipped":
		return event.ConclusionSkipped
	case "neutral":
		return event.ConclusionNeutral
	case "timed_out":
		return event.ConclusionTimedOut
	case "action_required":
		return event.ConclusionActionRequired
	}
	return event.ConclusionNone
}

// mapReviewState lowers an upstream review state into the enum. Unrecognized
// states fall back to commented; upstream may introduce new states.
func mapReviewState(s string) event.ReviewAction {
	switch strings.ToLower(s) {
	case "approved":
		return event.ReviewApproved
	case "changes_requested":
		return event.ReviewChangesRequested
	case "commented":
		return event.ReviewCommented
	}
	return event.ReviewCommented
}
