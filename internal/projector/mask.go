package projector

import (
	"crypto/sha256"
	"encoding/hex"
)

// anonymousUser is the label for jobs with no owning identity
const anonymousUser = "Quantum User"

// MaskUser derives a short pseudonymous label from a raw user or instance
// identifier. The mapping is deterministic (same input, same label, across
// restarts) and one-way: the digest is truncated to 6 hex characters.
func MaskUser(userID string) string {
	if userID == "" {
		return anonymousUser
	}
	sum := sha256.Sum256([]byte(userID))
	return "user_" + hex.EncodeToString(sum[:])[:6]
}
