package models

import "errors"

var (
	// ErrInsufficientStock запрошено больше, чем есть на складе
	ErrInsufficientStock = errors.New("недостаточно остатков")
	// ErrUnknownCategory ссылка на несуществующую категорию
	ErrUnknownCategory = errors.New("категория не найдена")
	// ErrUnknownReference ссылка на несуществующую запись (фермер, сырье)
	ErrUnknownReference = errors.New("запись не найдена")
	ErrInvalidNumeric   = errors.New("некорректное числовое значение")
	ErrInvalidDate      = errors.New("некорректная дата, ожидается YYYY-MM-DD")
	ErrInvalidStatus    = errors.New("некорректный статус заказа")
	ErrInvalidField     = errors.New("некорректное значение поля")
	// ErrPersistence ошибка сохранения коллекции в хранилище
	ErrPersistence = errors.New("ошибка сохранения")
)

// UnknownLabel подпись для висячих ссылок при отображении
const UnknownLabel = "Unknown"

// DateLayout формат дат, которым обмениваются с внешними слоями
const DateLayout = "2006-01-02"
