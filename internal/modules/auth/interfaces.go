package auth

import (
	"context"

	"lodgebooking/internal/domain"
)

// MemberStore is the slice of member persistence the login flow needs.
type MemberStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	GetByShareNumber(ctx context.Context, share int) (*domain.Member, error)
}

// TokenIssuer signs session tokens. Implemented by internal/pkg/jwt.
type TokenIssuer interface {
	GenerateToken(shareNumber int, role string) (string, error)
}
