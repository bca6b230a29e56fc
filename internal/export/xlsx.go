package export

import (
	"fmt"

	"agroledger/server/internal/services"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSales   = "Sales"
	sheetSummary = "Summary"
	sheetStock   = "Stock"
)

// SalesReportXLSX отчет по продажам в виде книги Excel
func SalesReportXLSX(report services.SalesReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSales); err != nil {
		return nil, fmt.Errorf("ошибка создания листа: %w", err)
	}

	rows := [][]interface{}{{"Category ID", "Category", "Units", "Revenue"}}
	for _, id := range sortedIDs(report.PerCategory) {
		entry := report.PerCategory[id]
		rows = append(rows, []interface{}{id, entry.Name, entry.Units, roundMoney(entry.Revenue)})
	}
	rows = append(rows, []interface{}{"", "TOTAL", report.TotalUnits, roundMoney(report.TotalRevenue)})

	if err := writeRows(f, sheetSales, rows); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// ComprehensiveReportXLSX сводный отчет: финансы и продажи на одном листе, остатки на другом
func ComprehensiveReportXLSX(report services.ComprehensiveReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("ошибка создания листа: %w", err)
	}
	if _, err := f.NewSheet(sheetStock); err != nil {
		return nil, fmt.Errorf("ошибка создания листа: %w", err)
	}

	summary := [][]interface{}{
		{"Start date", report.StartDate},
		{"End date", report.EndDate},
		{"Tax rate", report.TaxRate},
		{"Income", roundMoney(report.Income)},
		{"Expenses", roundMoney(report.Expenses)},
		{"Tax", roundMoney(report.Tax)},
		{"Net profit", roundMoney(report.NetProfit)},
		{},
		{"Category ID", "Category", "Units sold"},
	}
	for _, id := range sortedIDs(report.CategorySales) {
		entry := report.CategorySales[id]
		summary = append(summary, []interface{}{id, entry.Name, entry.Units})
	}
	if err := writeRows(f, sheetSummary, summary); err != nil {
		return nil, err
	}

	stock := [][]interface{}{{"Category", "Current stock"}}
	for _, name := range sortedNames(report.CurrentStock) {
		stock = append(stock, []interface{}{name, report.CurrentStock[name]})
	}
	if err := writeRows(f, sheetStock, stock); err != nil {
		return nil, err
	}
	return toBytes(f)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("ошибка записи строки %d на лист %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func toBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func roundMoney(v float64) float64 {
	r, _ := decimalRound2(v).Float64()
	return r
}
