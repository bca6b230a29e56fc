package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "ledger:"

// BadgerStore хранит коллекции в локальной базе Badger
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore создает хранилище поверх открытой базы Badger
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) Load(key string) (string, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("badger: чтение ключа %s: %w", key, err)
	}
	return string(value), true, nil
}

func (s *BadgerStore) Save(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger: запись ключа %s: %w", key, err)
	}
	return nil
}
