package models

// InventoryItem запись о сыром (нефасованном) сырье на складе.
// QuantityAvailable хранится в килограммах и никогда не бывает отрицательным.
type InventoryItem struct {
	ID                int64   `json:"id"`
	Category          string  `json:"category"` // свободная метка, не ссылка на Category
	QuantityAvailable float64 `json:"quantity_available"`
	ReorderLevel      int     `json:"reorder_level"`
	RestockDate       string  `json:"restock_date"`
	StorageLocation   string  `json:"storage_location"`
}

// NeedsReorder возвращает true, если остаток ниже уровня дозаказа
func (i InventoryItem) NeedsReorder() bool {
	return i.QuantityAvailable < float64(i.ReorderLevel)
}
