package report

import (
	"bytes"
	"testing"

	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/icodeforyou/solarproposal-go/types/maybe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() (proposal.Summary, []proposal.Month) {
	s := proposal.Summary{
		Customer:        "Milica Nikolić",
		Address:         "Vojvode Mišića 3, Čačak",
		SystemCost:      781000,
		HorizonMonths:   24,
		Status:          simulate.StatusFound,
		BreakevenMonths: maybe.Some(14),
		BreakevenText:   "1 godina i 2 meseca",
		YearsInProfit:   maybe.Some(0),
		Years: []simulate.YearTotal{
			{Year: 1, Standard: 167052, Solar: 58747, Savings: 108305},
			{Year: 2, Standard: 175404, Solar: 61684, Savings: 113720},
		},
	}
	ms := make([]proposal.Month, 24)
	for i := range ms {
		ms[i] = proposal.Month{Index: months.Index(i + 1), StandardCost: 13921, SolarCost: 4895}
	}
	return s, ms
}

func TestBuildXLSX(t *testing.T) {
	s, ms := sample()
	data, err := BuildXLSX(s, ms, 2026)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, monthsSheet, yearsSheet}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Milica Nikolić", v)

	rows, err := f.GetRows(monthsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 25)
	assert.Equal(t, "2026-01", rows[1][0])
	assert.Equal(t, "2027-12", rows[24][0])

	v, err = f.GetCellValue(yearsSheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "113720", v)
}

func TestBuildPDF(t *testing.T) {
	s, ms := sample()
	data, err := Build(FormatPDF, s, ms, 2026)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("pdf")
	assert.True(t, ok)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, ok = ParseFormat("docx")
	assert.False(t, ok)

	_, err := Build(Format("docx"), proposal.Summary{}, nil, 2026)
	assert.Error(t, err)
}
