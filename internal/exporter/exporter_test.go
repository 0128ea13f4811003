package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	"salespulse/pkg/contracts/domain"
)

func sampleDashboard(withProducts bool) *domain.Dashboard {
	d := &domain.Dashboard{
		Year:    2025,
		Years:   []int{2024, 2025},
		TopN:    10,
		MinQty:  50,
		Ranking: []domain.BranchTotal{{Branch: "B", TotalCalc: 300}, {Branch: "A", TotalCalc: 100}},
		Seasonality: []domain.MonthTotal{
			{Month: "jan", Label: "Jan", Total: 10},
			{Month: "feb", Label: "Feb", Total: 20},
			{Month: "mar", Label: "Mar", Total: 30},
		},
		Margins: domain.MarginSections{
			Top:    []domain.BranchMargin{{Branch: "A", Revenue: 100, TotalProfit: 25, Margin: 0.25}},
			Bottom: []domain.BranchMargin{{Branch: "Z", Revenue: 0, TotalProfit: 5, Margin: domain.Undefined}},
		},
		Shares: domain.ShareSection{
			Categories: []string{"BEVERAGES", "FOOD"},
			Rows: []domain.CategoryShare{{
				Branch:    "A",
				Revenue:   map[string]float64{"BEVERAGES": 80, "FOOD": 20},
				Total:     100,
				BevShare:  0.8,
				FoodShare: 0.2,
			}},
		},
		Notices: []domain.Notice{},
	}
	if withProducts {
		d.Products = &domain.ProductSections{
			DescriptionColumn: "Product Desc",
			MinQty:            50,
			TopProfit: []domain.ProductMetric{
				{Description: "Latte", Qty: 200, Revenue: 1000, TotalCost: 600, TotalProfit: 400, Margin: 0.4, ProfitPerUnit: 2},
			},
			TopPerUnit: []domain.ProductMetric{
				{Description: "Latte", Qty: 200, Revenue: 1000, TotalCost: 600, TotalProfit: 400, Margin: 0.4, ProfitPerUnit: 2},
			},
		}
	} else {
		d.Notices = append(d.Notices, domain.Notice{
			Section: domain.SectionProducts,
			Kind:    domain.NoticeInsufficientData,
			Message: "Missing column 'Qty'",
		})
	}
	return d
}

func TestWriteWorkbookSheets(t *testing.T) {
	tests := []struct {
		name     string
		products bool
		want     []string
	}{
		{
			name:     "with products",
			products: true,
			want: []string{"Ranking", "Seasonality", "Margins Top", "Margins Bottom",
				"Category Share", "Products Profit", "Products Per Unit", "Notices"},
		},
		{
			name: "without products",
			want: []string{"Ranking", "Seasonality", "Margins Top", "Margins Bottom", "Category Share", "Notices"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteWorkbook(&buf, sampleDashboard(tt.products)))

			f, err := excelize.OpenReader(&buf)
			require.NoError(t, err)
			defer f.Close()
			assert.Equal(t, tt.want, f.GetSheetList())
		})
	}
}

func TestWorkbookCells(t *testing.T) {
	f, err := Workbook(sampleDashboard(false))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ranking")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"rank", "branch", "total_calc"}, rows[0])
	assert.Equal(t, []string{"1", "B", "300"}, rows[1])

	margin, err := f.GetCellValue("Margins Bottom", "D2")
	require.NoError(t, err)
	assert.Empty(t, margin, "undefined margin is an empty cell")

	msg, err := f.GetCellValue("Notices", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Missing column 'Qty'", msg)
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.xlsx")
	require.NoError(t, SaveWorkbook(path, sampleDashboard(true)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSaveWorkbookStorageError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dashboard.xlsx")
	err := SaveWorkbook(path, sampleDashboard(false))

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeStorage, appErr.Type)
	assert.Equal(t, path, appErr.Context["path"])
}

func TestSectionRecords(t *testing.T) {
	s, err := SectionByName(sampleDashboard(true), domain.SectionMarginsBottom)
	require.NoError(t, err)

	records := s.Records()
	require.Len(t, records, len(s.Rows))
	assert.Equal(t, []string{"Z", "0.00", "5.00", ""}, records[len(records)-1])
}

func TestWriteSection(t *testing.T) {
	cw := NewCSVWriter(nil)

	var buf bytes.Buffer
	require.NoError(t, cw.WriteSection(&buf, sampleDashboard(true), domain.SectionCategoryShare))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	lines := strings.Split(strings.TrimSpace(string(out[len(utf8BOM):])), "\n")
	assert.Equal(t, "branch,BEVERAGES,FOOD,total,bev_share,food_share", lines[0])
	assert.Equal(t, "A,80.00,20.00,100.00,0.8000,0.2000", lines[1])
}

func TestWriteSectionUndefinedRatio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(nil).WriteSection(&buf, sampleDashboard(true), domain.SectionMarginsBottom))
	assert.Contains(t, buf.String(), "Z,0.00,5.00,\n")
}

func TestWriteSectionErrors(t *testing.T) {
	cw := NewCSVWriter(nil)

	err := cw.WriteSection(&bytes.Buffer{}, sampleDashboard(true), "pie_chart")
	assert.ErrorIs(t, err, ErrUnknownSection)

	err = cw.WriteSection(&bytes.Buffer{}, sampleDashboard(false), domain.SectionProductsProfit)
	assert.ErrorIs(t, err, ErrSectionUnavailable)
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	cw := NewCSVWriter(&config.Paths{WorkingDir: dir})

	written, err := cw.WriteAll("exports", sampleDashboard(false))
	require.NoError(t, err)
	assert.Len(t, written, 6)
	assert.FileExists(t, filepath.Join(dir, "exports", "ranking.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "exports", "products_profit.csv"))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "3", formatCell(3))
	assert.Equal(t, "1.50", formatCell(1.5))
	assert.Equal(t, "0.2500", formatCell(domain.Ratio(0.25)))
	assert.Equal(t, "", formatCell(domain.Undefined))
}
