package webhooks

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultEndpointRetries = 5
	maxEndpointLength      = 64
)

var ErrEndpointExhausted = errors.New("failed to generate unique endpoint")

type EndpointChecker interface {
	ExistsByEndpoint(ctx context.Context, endpoint string) (bool, error)
}

// GenerateEndpoint returns a fresh endpoint token, retrying when the checker
// reports a collision. The UNIQUE constraint on webhooks.endpoint still guards
// against a race between the check and the insert.
func GenerateEndpoint(ctx context.Context, checker EndpointChecker, retries int) (string, error) {
	if retries < 1 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		token, err := newEndpointToken()
		if err != nil {
			return "", err
		}

		exists, err := checker.ExistsByEndpoint(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}

	return "", ErrEndpointExhausted
}

// newEndpointToken draws 122 random bits from crypto/rand via a v4 UUID and
// renders them as 32 lowercase hex characters.
func newEndpointToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// IsValidEndpoint rejects path segments that can never be a generated token,
// so they can be answered without a store round trip.
func IsValidEndpoint(endpoint string) bool {
	if endpoint == "" || len(endpoint) > maxEndpointLength {
		return false
	}
	for _, c := range endpoint {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
