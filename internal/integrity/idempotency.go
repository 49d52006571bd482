package integrity

import "github.com/google/uuid"

// Issuer hands out one fresh idempotency token per outbound mutating request.
type Issuer interface {
	Issue() string
}

// UUIDIssuer issues random RFC-4122 version 4 identifiers.
type UUIDIssuer struct{}

func NewUUIDIssuer() UUIDIssuer {
	return UUIDIssuer{}
}

func (UUIDIssuer) Issue() string {
	return uuid.NewString()
}
