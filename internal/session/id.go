package session

import (
	"fmt"

	"signin-portal/internal/utils"
)

const idBytes = 32 // 256 bits

// GenerateID returns a cryptographically random session ID.
func GenerateID() (string, error) {
	id, err := utils.RandomString(idBytes)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id, nil
}
