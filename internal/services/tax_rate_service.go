package services

import (
	"fmt"
	"strings"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"
)

// TaxRateService управляет налоговыми ставками
type TaxRateService struct {
	ledger    *repository.Ledger
	publisher events.Publisher
}

// NewTaxRateService создает новый экземпляр TaxRateService
func NewTaxRateService(ledger *repository.Ledger) *TaxRateService {
	return &TaxRateService{ledger: ledger}
}

// SetPublisher устанавливает получателя событий
func (s *TaxRateService) SetPublisher(p events.Publisher) {
	s.publisher = p
}

// GetAll возвращает все ставки
func (s *TaxRateService) GetAll() []models.TaxRate {
	var rates []models.TaxRate
	s.ledger.Read(func() {
		rates = s.ledger.TaxRates.All()
	})
	return rates
}

// GetRate ставка по id. Для 0 или неизвестного id возвращает 0: расчет без налога допустим.
func (s *TaxRateService) GetRate(id int64) float64 {
	var rate float64
	s.ledger.Read(func() {
		rate = rateOf(s.ledger, id)
	})
	return rate
}

// Add создает ставку
func (s *TaxRateService) Add(name string, rate float64) (models.TaxRate, error) {
	if err := validateTaxRate(name, rate); err != nil {
		return models.TaxRate{}, err
	}

	taxRate := models.TaxRate{Name: strings.TrimSpace(name), Rate: rate}
	err := s.ledger.Write(func() error {
		taxRate.ID = s.ledger.NextID()
		s.ledger.TaxRates.Append(taxRate)
		if err := s.ledger.TaxRates.Save(); err != nil {
			s.ledger.TaxRates.RemoveAt(s.ledger.TaxRates.Len() - 1)
			return err
		}
		return nil
	})
	if err != nil {
		return models.TaxRate{}, fmt.Errorf("ошибка создания налоговой ставки: %w", err)
	}

	publish(s.publisher, events.TypeTaxRateChanged, taxRate.ID, taxRate)
	return taxRate, nil
}

// Update меняет название и значение ставки
func (s *TaxRateService) Update(id int64, name string, rate float64) (bool, error) {
	if err := validateTaxRate(name, rate); err != nil {
		return false, err
	}

	found := false
	updated := models.TaxRate{ID: id, Name: strings.TrimSpace(name), Rate: rate}
	err := s.ledger.Write(func() error {
		i := s.ledger.TaxRates.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		prev := s.ledger.TaxRates.At(i)
		s.ledger.TaxRates.Set(i, updated)
		if err := s.ledger.TaxRates.Save(); err != nil {
			s.ledger.TaxRates.Set(i, prev)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка обновления налоговой ставки: %w", err)
	}
	if found {
		publish(s.publisher, events.TypeTaxRateChanged, id, updated)
	}
	return found, nil
}

// Delete удаляет ставку
func (s *TaxRateService) Delete(id int64) (bool, error) {
	found := false
	err := s.ledger.Write(func() error {
		i := s.ledger.TaxRates.Index(id)
		if i < 0 {
			return nil
		}
		found = true
		snapshot := s.ledger.TaxRates.Snapshot()
		s.ledger.TaxRates.RemoveAt(i)
		if err := s.ledger.TaxRates.Save(); err != nil {
			s.ledger.TaxRates.Restore(snapshot)
			return err
		}
		return nil
	})
	if err != nil {
		return found, fmt.Errorf("ошибка удаления налоговой ставки: %w", err)
	}
	if found {
		publish(s.publisher, events.TypeTaxRateChanged, id, map[string]interface{}{"id": id, "deleted": true})
	}
	return found, nil
}

func validateTaxRate(name string, rate float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: название ставки обязательно", models.ErrInvalidField)
	}
	if !validAmount(rate) {
		return fmt.Errorf("%w: ставка должна быть неотрицательной", models.ErrInvalidNumeric)
	}
	return nil
}
