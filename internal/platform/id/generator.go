package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque ids for cycle runs and outbound events.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered UUIDv7 ids.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Static returns the same id every call. Tests use it for stable run ids.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}
