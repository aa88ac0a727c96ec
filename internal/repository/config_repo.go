package repository

import (
	"context"

	"gorm.io/gorm"

	"lodgebooking/internal/domain"
)

type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Snapshot loads the singleton configuration with everything the pricing
// engine needs materialized: seasons, their booking types with banned rooms,
// and the room list. One load per request; the engine never touches the
// database after this.
func (r *ConfigRepository) Snapshot(ctx context.Context) (*domain.Config, error) {
	var cfg domain.Config
	tx := r.db.WithContext(ctx).
		Preload("Seasons.BookingTypes.BannedRooms").
		Preload("Rooms.RoomType").
		First(&cfg)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &cfg, nil
}
