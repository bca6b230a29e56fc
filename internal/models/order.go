package models

// OrderStatus статус заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusProcessed OrderStatus = "Processed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// IsValid проверяет, что статус входит в допустимый набор
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessed, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderItem позиция заказа. UnitPrice фиксируется по цене категории на момент создания.
type OrderItem struct {
	CategoryID int64   `json:"category_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Order заказ покупателя
type Order struct {
	ID              int64       `json:"id"`
	CustomerName    string      `json:"customer_name"`
	CustomerContact string      `json:"customer_contact"`
	ShippingInfo    string      `json:"shipping_info"`
	Items           []OrderItem `json:"items"`
	TotalCost       float64     `json:"total_cost"`
	Status          OrderStatus `json:"status"`
	OrderDate       string      `json:"order_date"` // YYYY-MM-DD
}

// TotalQuantity суммарное количество единиц во всех позициях
func (o Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Clone возвращает копию заказа с собственным срезом позиций
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
