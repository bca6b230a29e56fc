package models

// TaxRate именованная налоговая ставка (доля, например 0.15)
type TaxRate struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// DefaultTaxRates возвращает ставки, которые создаются при первом запуске
func DefaultTaxRates() []TaxRate {
	return []TaxRate{
		{ID: 1, Name: "Standard Tax", Rate: 0.15},
	}
}

// TaxLiability запись журнала налоговых обязательств.
// Журнал только пополняется и не читается при расчетах.
type TaxLiability struct {
	ID        int64   `json:"id"`
	Period    string  `json:"period"` // "<start> to <end>"
	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
}
