// Package system provides the production id generator and clock adapters.
package system

import (
	"time"

	"github.com/google/uuid"

	"chartsnap-backend/internal/domain"
)

// UUIDGenerator mints random UUIDv4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) GenerateID() string {
	return uuid.NewString()
}

// Clock reads the wall clock.
type Clock struct{}

func (Clock) Now() time.Time {
	return time.Now()
}

var (
	_ domain.IDGenerator = UUIDGenerator{}
	_ domain.Clock       = Clock{}
)
