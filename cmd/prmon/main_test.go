package main

import (
	"testing"
)

func TestParsePRRef(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		repoFlag   string
		wantOwner  string
		wantRepo   string
		wantNumber int
		wantErr    bool
	}{
		{
			name:       "full reference",
			ref:        "octocat/hello#42",
			wantOwner:  "octocat",
			wantRepo:   "hello",
			wantNumber: 42,
		},
		{
			name:       "bare number with repo flag",
			ref:        "42",
			repoFlag:   "octocat/hello",
			wantOwner:  "octocat",
			wantRepo:   "hello",
			wantNumber: 42,
		},
		{
			name:    "bare number without repo flag",
			ref:     "42",
			wantErr: true,
		},
		{
			name:     "repo flag missing slash",
			ref:      "42",
			repoFlag: "octocat",
			wantErr:  true,
		},
		{
			name:    "missing owner",
			ref:     "/hello#42",
			wantErr: true,
		},
		{
			name:    "missing repo",
			ref:     "octocat#42",
			wantErr: true,
		},
		{
			name:    "non-numeric PR",
			ref:     "octocat/hello#abc",
			wantErr: true,
		},
		{
			name:    "zero PR number",
			ref:     "octocat/hello#0",
			wantErr: true,
		},
		{
			name:    "negative PR number",
			ref:     "-1",
			wantErr: true,
		},
		{
			name:    "garbage",
			ref:     "not-a-ref",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, number, err := parsePRRef(tt.ref, tt.repoFlag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePRRef(%q, %q) error = nil, want error", tt.ref, tt.repoFlag)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePRRef(%q, %q) error = %v", tt.ref, tt.repoFlag, err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo || number != tt.wantNumber {
				t.Errorf("parsePRRef(%q, %q) = (%q, %q, %d), want (%q, %q, %d)",
					tt.ref, tt.repoFlag, owner, repo, number, tt.wantOwner, tt.wantRepo, tt.wantNumber)
			}
		})
	}
}

func TestRunCLIUnknownCommand(t *testing.T) {
	if code := runCLI([]string{"bogus"}); code != 1 {
		t.Errorf("runCLI(bogus) = %d, want 1", code)
	}
}

func TestRunCLINoArgs(t *testing.T) {
	if code := runCLI(nil); code != 1 {
		t.Errorf("runCLI() = %d, want 1", code)
	}
}

func TestRunCLIHelp(t *testing.T) {
	if code := runCLI([]string{"help"}); code != 0 {
		t.Errorf("runCLI(help) = %d, want 0", code)
	}
}

func TestRunVersion(t *testing.T) {
	if code := runVersion(nil); code != 0 {
		t.Errorf("runVersion() = %d, want 0", code)
	}
	if code := runVersion([]string{"--json"}); code != 0 {
		t.Errorf("runVersion(--json) = %d, want 0", code)
	}
	if code := runVersion([]string{"extra"}); code != 1 {
		t.Errorf("runVersion(extra) = %d, want 1", code)
	}
}

func TestShortenCommit(t *testing.T) {
	if got := shortenCommit("abcdef1234567890"); got != "abcdef123456" {
		t.Errorf("shortenCommit() = %q, want %q", got, "abcdef123456")
	}
	if got := shortenCommit("abc"); got != "abc" {
		t.Errorf("shortenCommit() = %q, want %q", got, "abc")
	}
}
