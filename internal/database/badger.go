package database

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// OpenBadger открывает локальную базу Badger.
// Пустой путь открывает базу в памяти (данные не переживают перезапуск).
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}

	if path == "" {
		log.Warn().Msg("⚠️ Badger открыт в памяти: данные не сохранятся после перезапуска")
	} else {
		log.Info().Msgf("✅ Badger открыт: %s", path)
	}
	return db, nil
}

// CloseBadger закрывает базу Badger
func CloseBadger(db *badger.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
