package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	monthsSheet  = "months"
	yearsSheet   = "years"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

func ParseFormat(str string) (Format, bool) {
	switch Format(str) {
	case FormatXLSX, FormatPDF:
		return Format(str), true
	default:
		return "", false
	}
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Build renders the proposal in the given format.
func Build(format Format, s proposal.Summary, ms []proposal.Month, baseYear int) ([]byte, error) {
	switch format {
	case FormatPDF:
		return BuildPDF(s, ms, baseYear)
	case FormatXLSX:
		return BuildXLSX(s, ms, baseYear)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

type summaryLine struct {
	label string
	value any
}

func summaryLines(s proposal.Summary) []summaryLine {
	breakeven := any("-")
	if s.BreakevenMonths.IsValid() {
		breakeven = s.BreakevenMonths.Value()
	}
	yearsInProfit := any("-")
	if s.YearsInProfit.IsValid() {
		yearsInProfit = s.YearsInProfit.Value()
	}

	return []summaryLine{
		{"Customer", s.Customer},
		{"Address", s.Address},
		{"System cost (RSD)", s.SystemCost},
		{"Peak power (kW)", s.PeakPowerKw},
		{"Annual usage (kWh)", s.AnnualUsage},
		{"Annual production (kWh)", s.AnnualProduction},
		{"Solar share of usage (%)", s.SolarPercentage},
		{"Annual cost without solar (RSD)", s.AnnualCostPreSolar},
		{"Annual cost with solar (RSD)", s.AnnualCostPostSolar},
		{"Annual savings (RSD)", s.AnnualSavings},
		{"Breakeven month", breakeven},
		{"Breakeven", s.BreakevenText},
		{"Years in profit", yearsInProfit},
		{fmt.Sprintf("Savings over %d years (RSD)", months.Years(s.HorizonMonths)), s.NetSavings},
		{"CO2 reduction per year (kg)", s.CO2.ReductionKg},
		{"Trees equivalent", s.CO2.TreesEquivalent},
		{"Car kilometres equivalent", s.CO2.CarKilometres},
	}
}

// BuildXLSX renders the summary, every simulated month and the yearly totals
// on separate sheets.
func BuildXLSX(s proposal.Summary, ms []proposal.Month, baseYear int) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(monthsSheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", monthsSheet, err)
	}
	if _, err := f.NewSheet(yearsSheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", yearsSheet, err)
	}

	_ = f.SetCellValue(summarySheet, "A1", "Solar proposal")
	for i, l := range summaryLines(s) {
		row := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), l.label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), l.value)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 36)

	header := []any{"Month", "Standard cost", "Solar cost", "Cumulative standard", "Cumulative solar", "Carried credit (kWh)"}
	if err := f.SetSheetRow(monthsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write months header: %w", err)
	}
	for i, m := range ms {
		row := []any{m.Index.Label(baseYear), m.StandardCost, m.SolarCost, m.CumulativeStandard, m.CumulativeSolar, m.CarriedCredit}
		if err := f.SetSheetRow(monthsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("write month %d: %w", m.Index, err)
		}
	}

	header = []any{"Year", "Standard", "Solar", "Savings"}
	if err := f.SetSheetRow(yearsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write years header: %w", err)
	}
	for i, y := range s.Years {
		row := []any{baseYear + y.Year - 1, y.Standard, y.Solar, y.Savings}
		if err := f.SetSheetRow(yearsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("write year %d: %w", y.Year, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPDF renders the summary and the yearly totals. Months are left out,
// the spreadsheet carries them.
func BuildPDF(s proposal.Summary, _ []proposal.Month, baseYear int) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Solar proposal")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format(time.RFC3339)))
	pdf.Ln(8)

	for _, l := range summaryLines(s) {
		pdf.CellFormat(70, 6, tr(l.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(fmt.Sprint(l.value)), "", 0, "L", false, 0, "")
		pdf.Ln(5)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Year", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Standard (RSD)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Solar (RSD)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Savings (RSD)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, y := range s.Years {
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", baseYear+y.Year-1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%d", y.Standard), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%d", y.Solar), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%d", y.Savings), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
