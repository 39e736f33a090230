package quote

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/ggr-quote/internal/catalog"
	"github.com/Simplici0/ggr-quote/internal/order"
)

const xlsxSheet = "견적"

var xlsxHeaders = []string{"번호", "품목", "수량", "크기", "가공", "재료비", "가공비", "부가세", "금액", "무게(kg)"}

// WriteXLSX renders the quote as a workbook: customer block, one row per
// item and the totals.
func WriteXLSX(w io.Writer, cat *catalog.Catalog, sub order.Submission) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename quote sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E8DCC8"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	c := sub.Customer
	rows := [][]any{
		{Subject(sub.Policy.Line, c)},
		{"이름", orDash(c.Name)},
		{"연락처", orDash(c.Phone)},
		{"이메일", orDash(c.Email)},
		{"요청사항", orDash(c.Memo)},
	}
	row := 1
	for _, r := range rows {
		if err := setRow(f, row, r); err != nil {
			return err
		}
		row++
	}
	row++

	header := make([]any, len(xlsxHeaders))
	for i, h := range xlsxHeaders {
		header[i] = h
	}
	if err := setRow(f, row, header); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(xlsxHeaders))
	if err := f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), bold); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}
	row++

	for _, l := range ItemLines(cat, sub.Items) {
		var total any = l.Item.Total
		if l.Item.IsCustomPrice {
			total = l.Amount
		}
		if err := setRow(f, row, []any{
			l.Index, l.Name, l.Quantity, l.Size, l.Services,
			l.Item.MaterialCost, l.Item.ProcessingCost, l.Item.VAT, total, l.Item.WeightKg,
		}); err != nil {
			return err
		}
		row++
	}
	row++

	s := sub.Summary
	totals := [][]any{{sub.Policy.MaterialLabel(), s.MaterialsTotal}, {"가공비", s.ProcessingTotal}}
	if sub.Policy.VATRate > 0 {
		totals = append(totals, []any{"부가세", s.VAT})
	}
	if sub.Policy.IncludePackingCost {
		totals = append(totals, []any{"포장비", s.PackingCost})
	}
	if sub.Policy.IncludeShippingCost {
		totals = append(totals, []any{"배송비", s.ShippingCost})
	}
	totals = append(totals, []any{"총결제금액", s.GrandTotal}, []any{"예상무게(kg)", s.TotalWeight})
	if s.CustomItems > 0 {
		totals = append(totals, []any{"비규격 상담 품목", fmt.Sprintf("%d건 별도", s.CustomItems)})
	}
	for _, r := range totals {
		if err := setRow(f, row, r); err != nil {
			return err
		}
		if err := f.SetCellStyle(xlsxSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold); err != nil {
			return fmt.Errorf("style totals row: %w", err)
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write quote workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve row %d: %w", row, err)
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
