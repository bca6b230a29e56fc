package models

// Purchase закупка сырья у фермера.
// TotalCost вычисляется один раз при создании: Quantity * PricePerKg.
// FarmerID - слабая ссылка, фермер может быть удален независимо.
type Purchase struct {
	ID         int64   `json:"id"`
	FarmerID   int64   `json:"farmer_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Quantity   float64 `json:"quantity"`
	PricePerKg float64 `json:"price_per_kg"`
	TotalCost  float64 `json:"total_cost"`
}

// Поля, по которым можно пересортировать закупки
const (
	PurchaseSortByDate      = "date"
	PurchaseSortByTotalCost = "totalCost"
)
