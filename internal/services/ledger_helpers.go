package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"agroledger/server/internal/events"
	"agroledger/server/internal/models"
	"agroledger/server/internal/repository"

	"github.com/rs/zerolog/log"
)

const publishTimeout = 5 * time.Second

// dateRange включительный диапазон дат. nil граница означает отсутствие ограничения.
type dateRange struct {
	start *time.Time
	end   *time.Time
}

func newDateRange(start, end string) (dateRange, error) {
	var r dateRange
	if start = strings.TrimSpace(start); start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return r, fmt.Errorf("%w: начало периода %q", models.ErrInvalidDate, start)
		}
		r.start = &t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return r, fmt.Errorf("%w: конец периода %q", models.ErrInvalidDate, end)
		}
		r.end = &t
	}
	return r, nil
}

func (r dateRange) bounded() bool {
	return r.start != nil || r.end != nil
}

// contains проверяет дату записи. Записи с нечитаемой датой в ограниченный период не попадают.
func (r dateRange) contains(date string) bool {
	if !r.bounded() {
		return true
	}
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return false
	}
	if r.start != nil && t.Before(*r.start) {
		return false
	}
	if r.end != nil && t.After(*r.end) {
		return false
	}
	return true
}

func validDate(date string) bool {
	_, err := time.Parse(models.DateLayout, date)
	return err == nil
}

func validFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validAmount(v float64) bool {
	return validFinite(v) && v >= 0
}

// categoryName имя категории или "Unknown" для висячей ссылки. Вызывать под блокировкой учета.
func categoryName(l *repository.Ledger, id int64) string {
	if c, ok := l.Categories.Get(id); ok {
		return c.Name
	}
	return models.UnknownLabel
}

// rateOf ставка по id или 0. Вызывать под блокировкой учета.
func rateOf(l *repository.Ledger, id int64) float64 {
	if id == 0 {
		return 0
	}
	if r, ok := l.TaxRates.Get(id); ok {
		return r.Rate
	}
	return 0
}

// publish отправляет событие вне блокировки учета. Ошибка доставки не влияет на результат операции.
func publish(p events.Publisher, eventType string, id int64, data interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	event := events.NewEvent(eventType, fmt.Sprintf("%s-%d", eventType, id), data)
	if err := p.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Msgf("⚠️ Не удалось опубликовать событие %s", eventType)
	}
}
