package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// VerifySignature checks a GitHub X-Hub-Signature-256 header against the
// request body. The header must be "sha256=" followed by the hex HMAC-SHA256
// of the body keyed with secret.
//
// Comparison is constant-time (crypto/subtle) to prevent timing attacks.
// Any malformed header (missing, wrong prefix, invalid hex) fails closed.
func VerifySignature(body []byte, header, secret string) bool {
	if header == "" {
		return false
	}

	hexSig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}

	actualMAC, err := hex.DecodeString(hexSig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expectedMAC := mac.Sum(nil)

	return subtle.ConstantTimeCompare(expectedMAC, actualMAC) == 1
}

// computeSignature returns the hex HMAC-SHA256 of body keyed with secret.
func computeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// formatSignatureHeader wraps a hex signature in GitHub's header format.
func formatSignatureHeader(hexSig string) string {
	return "sha256=" + hexSig
}
