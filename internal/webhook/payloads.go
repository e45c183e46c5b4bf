package webhook

// Upstream delivery shapes, reduced to the fields normalization reads.
// Each struct mirrors one X-GitHub-Event payload; everything else in the
// delivery is ignored.

type user struct {
	Login string `json:"login"`
}

type prRef struct {
	Number int `json:"number"`
}

type checkRunPayload struct {
	Action   string `json:"action"`
	CheckRun struct {
		Name         string  `json:"name"`
		Status       string  `json:"status"`
		Conclusion   *string `json:"conclusion"`
		PullRequests []prRef `json:"pull_requests"`
	} `json:"check_run"`
}

type checkSuitePayload struct {
	Action     string `json:"action"`
	CheckSuite struct {
		Status     string  `json:"status"`
		Conclusion *string `json:"conclusion"`
		App        struct {
			Name string `json:"name"`
		} `json:"app"`
		PullRequests []prRef `json:"pull_requests"`
	} `json:"check_suite"`
}

type reviewPayload struct {
	Action string `json:"action"`
	Review struct {
		State string `json:"state"`
		User  user   `json:"user"`
	} `json:"review"`
	PullRequest prRef `json:"pull_request"`
}

type reviewCommentPayload struct {
	Action  string `json:"action"`
	Comment struct {
		Body string `json:"body"`
		User user   `json:"user"`
	} `json:"comment"`
	PullRequest prRef `json:"pull_request"`
}

type issueCommentPayload struct {
	Action  string `json:"action"`
	Comment struct {
		Body string `json:"body"`
		User user   `json:"user"`
	} `json:"comment"`
	Issue struct {
		Number int `json:"number"`
		// Present (possibly empty) when the "issue" is actually a PR.
		PullRequest *struct{} `json:"pull_request"`
	} `json:"issue"`
}
