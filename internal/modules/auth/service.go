package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lodgebooking/internal/domain"
)

const (
	RoleMember      = "member"
	RoleMaintenance = "maintenance"
)

type Service struct {
	members MemberStore
	tokens  TokenIssuer
}

func NewService(members MemberStore, tokens TokenIssuer) *Service {
	return &Service{members: members, tokens: tokens}
}

func roleFor(m *domain.Member) string {
	if m.IsMaintenance() {
		return RoleMaintenance
	}
	return RoleMember
}

// Login checks the member's credentials and issues a session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *MemberPublic, error) {
	member, err := s.members.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(member.ShareNumber, roleFor(member))
	if err != nil {
		return "", nil, err
	}
	return token, memberPublic(member), nil
}

// Me returns the profile behind a validated session.
func (s *Service) Me(ctx context.Context, share int) (*MemberPublic, error) {
	member, err := s.members.GetByShareNumber(ctx, share)
	if err != nil {
		return nil, err
	}
	return memberPublic(member), nil
}

func memberPublic(m *domain.Member) *MemberPublic {
	return &MemberPublic{
		ShareNumber: m.ShareNumber,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.ContactEmail,
	}
}
