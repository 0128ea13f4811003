package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"

	"salespulse/pkg/contracts/domain"
)

// number decodes a numeric cell: empty, nan and inf are missing and read
// as 0, thousands separators are dropped
type number float64

func (n *number) UnmarshalText(text []byte) error {
	s := strings.ReplaceAll(strings.TrimSpace(string(text)), ",", "")
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", string(text))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = number(f)
	return nil
}

// noYear marks a blank or nan year cell; such rows match no year filter
const noYear = year(math.MinInt)

// year decodes "2025" and "2025.0"
type year int

func (y *year) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*y = noYear
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		*y = year(v)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil && math.IsNaN(f) {
		*y = noYear
		return nil
	}
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid year %q", s)
	}
	*y = year(f)
	return nil
}

type monthlyRecord struct {
	Year      year   `csv:"year"`
	Branch    string `csv:"branch"`
	TotalCalc number `csv:"total_calc"`
	Jan       number `csv:"jan"`
	Feb       number `csv:"feb"`
	Mar       number `csv:"mar"`
	Apr       number `csv:"apr"`
	May       number `csv:"may"`
	Jun       number `csv:"jun"`
	Jul       number `csv:"jul"`
	Aug       number `csv:"aug"`
	Sep       number `csv:"sep"`
	Oct       number `csv:"oct"`
	Nov       number `csv:"nov"`
	Dec       number `csv:"dec"`
}

func (r monthlyRecord) row() domain.MonthlyRow {
	return domain.MonthlyRow{
		Year:      int(r.Year),
		Branch:    strings.TrimSpace(r.Branch),
		TotalCalc: float64(r.TotalCalc),
		Months: [12]float64{
			float64(r.Jan), float64(r.Feb), float64(r.Mar), float64(r.Apr),
			float64(r.May), float64(r.Jun), float64(r.Jul), float64(r.Aug),
			float64(r.Sep), float64(r.Oct), float64(r.Nov), float64(r.Dec),
		},
	}
}

type categoryRecord struct {
	Branch      string `csv:"branch"`
	Category    string `csv:"category"`
	Revenue     number `csv:"revenue"`
	TotalProfit number `csv:"total_profit"`
}

func (r categoryRecord) row() domain.CategoryRow {
	return domain.CategoryRow{
		Branch:      strings.TrimSpace(r.Branch),
		Category:    strings.ToUpper(strings.TrimSpace(r.Category)),
		Revenue:     float64(r.Revenue),
		TotalProfit: float64(r.TotalProfit),
	}
}

type productRecord struct {
	Description string `csv:"description"`
	Qty         number `csv:"qty"`
	Revenue     number `csv:"revenue"`
	TotalCost   number `csv:"total_cost"`
	TotalProfit number `csv:"total_profit"`
}

func (r productRecord) row() domain.ProductRow {
	return domain.ProductRow{
		Description: strings.TrimSpace(r.Description),
		Qty:         float64(r.Qty),
		Revenue:     float64(r.Revenue),
		TotalCost:   float64(r.TotalCost),
		TotalProfit: float64(r.TotalProfit),
	}
}

// DecodeMonthly decodes the rows of a validated monthly table. Rows without
// a year are dropped.
func DecodeMonthly(t *Table) ([]domain.MonthlyRow, error) {
	mustValidate(domain.DatasetMonthly, t, MonthlyRequired)
	var records []monthlyRecord
	if err := decode(t, t.decoderHeader(), &records); err != nil {
		return nil, err
	}
	rows := make([]domain.MonthlyRow, 0, len(records))
	for _, r := range records {
		if r.Year == noYear {
			continue
		}
		rows = append(rows, r.row())
	}
	return rows, nil
}

// DecodeCategory decodes the rows of a validated category table
func DecodeCategory(t *Table) ([]domain.CategoryRow, error) {
	mustValidate(domain.DatasetCategory, t, CategoryRequired)
	var records []categoryRecord
	if err := decode(t, t.decoderHeader(), &records); err != nil {
		return nil, err
	}
	rows := make([]domain.CategoryRow, len(records))
	for i, r := range records {
		rows[i] = r.row()
	}
	return rows, nil
}

// DecodeProduct decodes the product table using the layout resolved by
// CheckProduct.
func DecodeProduct(t *Table, cols domain.ProductColumns) ([]domain.ProductRow, error) {
	required := make([]string, 0, len(ProductNumericColumns)+1)
	required = append(required, ProductNumericColumns...)
	required = append(required, cols.Description)
	mustValidate(domain.DatasetProduct, t, required)

	descIdx := t.ColumnIndex(cols.Description)
	header := t.decoderHeader()
	for i, key := range header {
		switch {
		case i == descIdx:
			header[i] = "description"
		case key == "description":
			header[i] = "description.other"
		}
	}

	var records []productRecord
	if err := decode(t, header, &records); err != nil {
		return nil, err
	}
	rows := make([]domain.ProductRow, len(records))
	for i, r := range records {
		rows[i] = r.row()
	}
	return rows, nil
}

func decode(t *Table, header []string, out interface{}) error {
	dec, err := csvutil.NewDecoder(&rowReader{rows: t.rows}, header...)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s: %w", t.name, err)
	}
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", t.name, err)
	}
	return nil
}

func mustValidate(dataset domain.Dataset, t *Table, required []string) {
	if err := Validate(dataset, t, required); err != nil {
		panic(fmt.Sprintf("dataset: decoding unvalidated table: %v", err))
	}
}
