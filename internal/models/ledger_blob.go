package models

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerBlob строка key-value хранилища коллекций учета в PostgreSQL
type LedgerBlob struct {
	Key       string    `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName указывает имя таблицы
func (LedgerBlob) TableName() string {
	return "ledger_blobs"
}

// AutoMigrate создает таблицы в БД
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&LedgerBlob{}); err != nil {
		log.Error().Err(err).Msg("❌ AutoMigrate для LedgerBlob failed")
		return err
	}
	log.Info().Msg("✅ LedgerBlob table migrated successfully")
	return nil
}
