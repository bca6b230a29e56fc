package services

import (
	"fmt"
	"strings"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

// FarmerService управляет фермерами-поставщиками
type FarmerService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewFarmerService создает новый экземпляр FarmerService
func NewFarmerService(ledger *repository.Ledger) *FarmerService {
	return &FarmerService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *FarmerService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// GetAll возвращает всех фермеров в порядке добавления
func (s *FarmerService) GetAll() []models.Farmer {
	var farmers []models.Farmer
	s.ledger.Read(func() {
		farmers = s.ledger.Farmers.All()
	})
	return farmers
}

// Get возвращает фермера по id
func (s *FarmerService) Get(id int64) (models.Farmer, bool) {
	var (
		farmer models.Farmer
		ok     bool
	)
	s.ledger.Read(func() {
		farmer, ok = s.ledger.Farmers.Get(id)
	})
	return farmer, ok
}

// NameOf имя фермера или "Unknown", если фермер удален
func (s *FarmerService) NameOf(id int64) string {
	if f, ok := s.Get(id); ok {
		return f.Name
	}
	return models.UnknownLabel
}

// Search ищет фермеров по подстроке в имени или регионе без учета регистра
func (s *FarmerService) Search(term string) []models.Farmer {
	term = strings.ToLower(strings.TrimSpace(term))
	result := []models.Farmer{}
	s.ledger.Read(func() {
		for _, f := range s.ledger.Farmers.Items() {
			if term == "" ||
				strings.Contains(strings.ToLower(f.Name), term) ||
				strings.Contains(strings.ToLower(f.Region), term) {
				result = append(result, f)
			}
		}
	})
	return result
}

// Add создает фермера с новым id
func (s *FarmerService) Add(farmer models.Farmer) (models.Farmer, error) {
	if err := validateFarmer(farmer); err != nil {
		return models.Farmer{}, err
	}

	err := s.ledger.Write(func() error {
		farmer.ID = s.ledger.NextID()
		s.ledger.Farmers.Append(farmer)
		if err := s.ledger.Farmers.Save(); err != nil {
			s.ledger.Farmers.RemoveAt(s.ledger.Farmers.Len() - 1)
			return err
		}
		return nil
	})
	if err != nil {
		return models.Farmer{}, fmt.Errorf("ошибка создания фермера: %w", err)
	}

	log.Info().Msgf("✅ Фермер добавлен: %s (id=%d)", farmer.Name, farmer.ID)
	publish(s.publisher, events.TypeFarmerChanged, farmer.ID, farmer)
	return farmer, nil
}

// Update заменяет поля фермера. Несуществующий id не является ошибкой: found=false.
func (s *FarmerService) Update(id int64, farmer models.Farmer) (bool, error) {
	if err := validateFarmer(farmer); err != nil {
		return false, err
	}

	found := false
	err := s.ledger.Write(func() error {
		i := s.ledger.Farmers.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		prev := s.ledger.Farmers.At(i)
		farmer.ID = id
		s.ledger.Farmers.Set(i, farmer)
		if err := s.ledger.Farmers.Save(); err != nil {
			s.ledger.Farmers.Set(i, prev)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка обновления фермера: %w", err)
	}
	if found {
		publish(s.publisher, events.TypeFarmerChanged, id, farmer)
	}
	return found, nil
}

// Delete удаляет фермера. Закупки сохраняют ссылку на удаленного фермера.
func (s *FarmerService) Delete(id int64) (bool, error) {
	found := false
	err := s.ledger.Write(func() error {
		i := s.ledger.Farmers.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		snapshot := s.ledger.Farmers.Snapshot()
		s.ledger.Farmers.RemoveAt(i)
		if err := s.ledger.Farmers.Save(); err != nil {
			s.ledger.Farmers.Restore(snapshot)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка удаления фермера: %w", err)
	}
	if found {
		log.Info().Msgf("🗑️ Фермер удален: id=%d", id)
		publish(s.publisher, events.TypeFarmerChanged, id, map[string]interface{}{"id": id, "deleted": true})
	}
	return found, nil
}

func validateFarmer(f models.Farmer) error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: имя фермера обязательно", models.ErrInvalidField)
	}
	if strings.TrimSpace(f.Region) == "" {
		return fmt.Errorf("%w: регион фермера обязателен", models.ErrInvalidField)
	}
	return nil
}
