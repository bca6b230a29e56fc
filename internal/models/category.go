package models

// Category фасованная товарная категория (например, "Small" по 500g)
type Category struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Weight           string  `json:"weight"` // вес единицы с суффиксом: "500g", "1kg"
	Price            float64 `json:"price"`
	Stock            int     `json:"stock"`
	ReorderThreshold int     `json:"reorder_threshold"`
}

// DefaultReorderThreshold порог дозаказа для категорий по умолчанию
const DefaultReorderThreshold = 10

// DefaultCategories возвращает категории, которые создаются при первом запуске
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Small", Weight: "500g", Price: 5, Stock: 0, ReorderThreshold: DefaultReorderThreshold},
		{ID: 2, Name: "Medium", Weight: "1kg", Price: 10, Stock: 0, ReorderThreshold: DefaultReorderThreshold},
		{ID: 3, Name: "Large", Weight: "2kg", Price: 18, Stock: 0, ReorderThreshold: DefaultReorderThreshold},
	}
}
