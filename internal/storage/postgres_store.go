package storage

import (
	"errors"
	"fmt"
	"time"

	"agroledger/server/internal/models"

	"gorm.io/gorm"
)

// PostgresStore хранит коллекции в таблице ledger_blobs
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore создает хранилище поверх gorm подключения.
// Таблица должна быть создана через models.AutoMigrate.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(key string) (string, bool, error) {
	var blob models.LedgerBlob
	err := s.db.First(&blob, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("postgres: чтение ключа %s: %w", key, err)
	}
	return blob.Value, true, nil
}

func (s *PostgresStore) Save(key, value string) error {
	blob := models.LedgerBlob{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.db.Save(&blob).Error; err != nil {
		return fmt.Errorf("postgres: запись ключа %s: %w", key, err)
	}
	return nil
}
