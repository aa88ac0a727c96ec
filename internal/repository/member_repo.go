package repository

import (
	"context"

	"gorm.io/gorm"

	"lodgebooking/internal/domain"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByShareNumber(ctx context.Context, share int) (*domain.Member, error) {
	var m domain.Member
	tx := r.db.WithContext(ctx).Preload("Family").
		Where("share_number = ?", share).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &m, nil
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	var m domain.Member
	tx := r.db.WithContext(ctx).Preload("Family").
		Where("contact_email = ?", email).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &m, nil
}
