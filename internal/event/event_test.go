package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCIEventMarshal(t *testing.T) {
	tests := []struct {
		name string
		ev   CIEvent
		want string
	}{
		{
			name: "queued without conclusion",
			ev:   CIEvent{Check: "build", Status: CheckQueued},
			want: `{"event":"ci","check":"build","status":"queued","conclusion":null}`,
		},
		{
			name: "completed with conclusion",
			ev:   CIEvent{Check: "lint", Status: CheckCompleted, Conclusion: ConclusionFailure},
			want: `{"event":"ci","check":"lint","status":"completed","conclusion":"failure"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestReviewEventMarshal(t *testing.T) {
	data, err := json.Marshal(ReviewEvent{PR: 42, User: "alice", Action: ReviewApproved})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"review","pr":42,"user":"alice","action":"approved"}`, string(data))
}

func TestCommentEventMarshal(t *testing.T) {
	prComment := NewPRComment(42, "bob", "looks good")
	data, err := json.Marshal(prComment)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"comment","pr":42,"user":"bob","body":"looks good"}`, string(data))

	issueComment := NewIssueComment(15, "carol", "tracking")
	data, err = json.Marshal(issueComment)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"comment","issue":15,"user":"carol","body":"tracking"}`, string(data))
}

func TestCommentEventInvariant(t *testing.T) {
	// Neither side set.
	_, err := json.Marshal(CommentEvent{User: "u", Body: "b"})
	assert.Error(t, err)

	// Both sides set.
	pr, issue := 1, 2
	_, err = json.Marshal(CommentEvent{PR: &pr, Issue: &issue, User: "u", Body: "b"})
	assert.Error(t, err)

	assert.NoError(t, NewPRComment(1, "u", "b").Validate())
	assert.NoError(t, NewIssueComment(2, "u", "b").Validate())
}

func TestKinds(t *testing.T) {
	assert.Equal(t, KindCI, CIEvent{}.Kind())
	assert.Equal(t, KindReview, ReviewEvent{}.Kind())
	assert.Equal(t, KindComment, CommentEvent{}.Kind())
}
