package audit

import (
	"crypto/sha256"
	"encoding/base64"
)

// TokenFingerprint hashes a token so audit entries never carry the raw
// credential.
func TokenFingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.StdEncoding.EncodeToString(hash[:])
}
