package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/willowtrade/willow/internal/chain"
	"github.com/willowtrade/willow/internal/screener"
)

const sheetName = "Spreads"

var excelHeaders = []string{
	"Ticker", "Type", "Expiration", "DTE", "Width", "Short Strike", "Long Strike",
	"Credit", "Max Loss", "Max Profit", "ROR %", "Ann %", "POP %", "Break-Even",
	"Stock Price", "Distance %", "Short OI", "Long OI",
}

var excelColWidths = []float64{10, 12, 12, 6, 7, 13, 13, 10, 11, 11, 9, 9, 8, 12, 12, 12, 10, 10}

// Color-scale anchor values for the graded columns. Percent columns are
// stored as fractions, matching their cell format.
var (
	rorScale        = colorScale{"0.15", "0.25", "0.40", "#F8696B", "#FFEB84", "#63BE7B"}
	annualizedScale = colorScale{"1.0", "2.0", "4.0", "#F8696B", "#FFEB84", "#63BE7B"}
	popScale        = colorScale{"0.60", "0.70", "0.80", "#F8696B", "#FFEB84", "#63BE7B"}
	dteScale        = colorScale{"14", "37", "60", "#F8696B", "#FFFFFF", "#63BE7B"}
	distanceScale   = colorScale{"0.01", "0.05", "0.10", "#F8696B", "#FFEB84", "#5B9BD5"}
)

type colorScale struct {
	min, mid, max                string
	minColor, midColor, maxColor string
}

// SaveExcel writes the result to a timestamped, formatted workbook in
// dir. Returns the file path, or "" when the result holds no spreads.
func SaveExcel(dir string, result *screener.Result) (string, error) {
	if result.TotalSpreads() == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("drop default sheet: %w", err)
	}

	styles, err := newCellStyles(f)
	if err != nil {
		return "", err
	}

	if err := writeExcelHeader(f, styles.header); err != nil {
		return "", err
	}
	if err := writeExcelRows(f, result, styles); err != nil {
		return "", err
	}

	rows := result.TotalSpreads()
	if err := applyColorScales(f, rows); err != nil {
		return "", err
	}

	// Freeze the header row and make every column filterable.
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return "", fmt.Errorf("freeze header: %w", err)
	}
	filterRange := fmt.Sprintf("A1:R%d", rows+1)
	if err := f.AutoFilter(sheetName, filterRange, nil); err != nil {
		return "", fmt.Errorf("set auto filter: %w", err)
	}

	path := filepath.Join(dir, result.Timestamp.Format(fileStamp)+"_spreads.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

type cellStyles struct {
	header  int
	text    int
	money   int
	percent int
	number  int
	date    int
}

func newCellStyles(f *excelize.File) (cellStyles, error) {
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return cellStyles{}, fmt.Errorf("header style: %w", err)
	}

	numFmt := func(format string) (int, error) {
		return f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &format})
	}

	text, err := f.NewStyle(&excelize.Style{Border: border})
	if err != nil {
		return cellStyles{}, fmt.Errorf("text style: %w", err)
	}
	money, err := numFmt("$#,##0.00")
	if err != nil {
		return cellStyles{}, fmt.Errorf("money style: %w", err)
	}
	percent, err := numFmt("0.0%")
	if err != nil {
		return cellStyles{}, fmt.Errorf("percent style: %w", err)
	}
	number, err := numFmt("#,##0")
	if err != nil {
		return cellStyles{}, fmt.Errorf("number style: %w", err)
	}
	date, err := numFmt("yyyy-mm-dd")
	if err != nil {
		return cellStyles{}, fmt.Errorf("date style: %w", err)
	}

	return cellStyles{
		header:  header,
		text:    text,
		money:   money,
		percent: percent,
		number:  number,
		date:    date,
	}, nil
}

func writeExcelHeader(f *excelize.File, style int) error {
	for col, h := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return fmt.Errorf("style header cell: %w", err)
		}
	}

	for col, width := range excelColWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func writeExcelRows(f *excelize.File, result *screener.Result, styles cellStyles) error {
	for i, s := range result.Spreads {
		row := i + 2

		cells := []struct {
			value interface{}
			style int
		}{
			{s.Symbol, styles.text},
			{s.Direction.Title(), styles.text},
			{s.Expiration.Format(chain.DateLayout), styles.date},
			{s.DaysToExpiration, styles.number},
			{s.Width, styles.number},
			{s.ShortLeg.Strike, styles.money},
			{s.LongLeg.Strike, styles.money},
			{s.NetCredit, styles.money},
			{s.MaxLoss, styles.money},
			{s.MaxProfit, styles.money},
			{s.ReturnOnRisk / 100, styles.percent},
			{s.AnnualizedReturn() / 100, styles.percent},
			{s.ProbabilityOfProfit / 100, styles.percent},
			{s.BreakEven, styles.money},
			{s.UnderlyingPrice, styles.money},
			{s.DistancePct() / 100, styles.percent},
			{s.ShortLeg.OpenInterest, styles.number},
			{s.LongLeg.OpenInterest, styles.number},
		}

		for col, c := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, c.value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
			if err := f.SetCellStyle(sheetName, cell, cell, c.style); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func applyColorScales(f *excelize.File, rows int) error {
	scales := []struct {
		column string
		scale  colorScale
	}{
		{"K", rorScale},      // ROR %
		{"L", annualizedScale}, // Ann %
		{"M", popScale},      // POP %
		{"D", dteScale},      // DTE
		{"P", distanceScale}, // Distance %
	}

	for _, sc := range scales {
		ref := fmt.Sprintf("%s2:%s%d", sc.column, sc.column, rows+1)
		opts := []excelize.ConditionalFormatOptions{{
			Type:     "3_color_scale",
			Criteria: "=",
			MinType:  "num",
			MinValue: sc.scale.min,
			MinColor: sc.scale.minColor,
			MidType:  "num",
			MidValue: sc.scale.mid,
			MidColor: sc.scale.midColor,
			MaxType:  "num",
			MaxValue: sc.scale.max,
			MaxColor: sc.scale.maxColor,
		}}
		if err := f.SetConditionalFormat(sheetName, ref, opts); err != nil {
			return fmt.Errorf("color scale %s: %w", sc.column, err)
		}
	}
	return nil
}
