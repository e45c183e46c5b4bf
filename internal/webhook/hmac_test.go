package webhook

import (
	"testing"
)

func TestVerifySignature(t *testing.T) {
	secret := "test-secret-key"
	body := []byte(`{"action":"created"}`)

	validHeader := formatSignatureHeader(computeSignature(body, secret))

	tests := []struct {
		name   string
		body   []byte
		header string
		secret string
		want   bool
	}{
		{
			name:   "valid signature",
			body:   body,
			header: validHeader,
			secret: secret,
			want:   true,
		},
		{
			name:   "missing header",
			body:   body,
			header: "",
			secret: secret,
			want:   false,
		},
		{
			name:   "wrong signature",
			body:   body,
			header: "sha256=0000000000000000000000000000000000000000000000000000000000000000",
			secret: secret,
			want:   false,
		},
		{
			name:   "tampered body",
			body:   []byte(`{"action":"deleted"}`),
			header: validHeader,
			secret: secret,
			want:   false,
		},
		{
			name:   "wrong secret",
			body:   body,
			header: validHeader,
			secret: "other-secret",
			want:   false,
		},
		{
			name:   "missing sha256 prefix",
			body:   body,
			header: computeSignature(body, secret),
			secret: secret,
			want:   false,
		},
		{
			name:   "wrong algorithm prefix",
			body:   body,
			header: "sha1=" + computeSignature(body, secret),
			secret: secret,
			want:   false,
		},
		{
			name:   "malformed hex",
			body:   body,
			header: "sha256=not-valid-hex",
			secret: secret,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VerifySignature(tt.body, tt.header, tt.secret)
			if got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}
