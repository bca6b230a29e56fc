package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"agroledger/server/internal/models"
	"agroledger/server/internal/services"
)

// SalesReportCSV отчет по продажам: строка на категорию и итоговая строка
func SalesReportCSV(report services.SalesReport) ([]byte, error) {
	rows := [][]string{{"category_id", "category", "units", "revenue"}}
	for _, id := range sortedIDs(report.PerCategory) {
		entry := report.PerCategory[id]
		rows = append(rows, []string{strconv.FormatInt(id, 10), entry.Name, itoa(entry.Units), Money(entry.Revenue)})
	}
	rows = append(rows, []string{"", "TOTAL", itoa(report.TotalUnits), Money(report.TotalRevenue)})
	return writeCSV(rows)
}

// ComprehensiveReportCSV сводный отчет: финансовый блок, продажи по категориям, остатки
func ComprehensiveReportCSV(report services.ComprehensiveReport) ([]byte, error) {
	rows := [][]string{
		{"metric", "value"},
		{"start_date", report.StartDate},
		{"end_date", report.EndDate},
		{"tax_rate", Percent(report.TaxRate)},
		{"income", Money(report.Income)},
		{"expenses", Money(report.Expenses)},
		{"tax", Money(report.Tax)},
		{"net_profit", Money(report.NetProfit)},
		{},
		{"category_id", "category", "units_sold"},
	}
	for _, id := range sortedIDs(report.CategorySales) {
		entry := report.CategorySales[id]
		rows = append(rows, []string{strconv.FormatInt(id, 10), entry.Name, itoa(entry.Units)})
	}
	rows = append(rows, []string{}, []string{"category", "current_stock"})
	for _, name := range sortedNames(report.CurrentStock) {
		rows = append(rows, []string{name, itoa(report.CurrentStock[name])})
	}
	return writeCSV(rows)
}

// OrdersCSV список заказов, строка на позицию
func OrdersCSV(orders []models.Order, categoryName func(int64) string) ([]byte, error) {
	rows := [][]string{{"order_id", "order_date", "customer", "status", "category", "quantity", "unit_price", "total_price", "order_total"}}
	for _, o := range orders {
		for _, item := range o.Items {
			rows = append(rows, []string{
				strconv.FormatInt(o.ID, 10),
				o.OrderDate,
				o.CustomerName,
				string(o.Status),
				categoryName(item.CategoryID),
				itoa(item.Quantity),
				Money(item.UnitPrice),
				Money(item.TotalPrice),
				Money(o.TotalCost),
			})
		}
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("ошибка формирования CSV: %w", err)
	}
	return buf.Bytes(), nil
}
