package exporter

import (
	"errors"
	"fmt"

	"salespulse/pkg/contracts/domain"
)

var (
	// ErrUnknownSection is returned for a section name Sections never produces
	ErrUnknownSection = errors.New("unknown section")
	// ErrSectionUnavailable is returned for a section skipped by the render
	ErrSectionUnavailable = errors.New("section not available")
)

// SectionNotices names the notices table
const SectionNotices = "notices"

// Section is one dashboard table ready for export. Cells hold string,
// int, float64, domain.Ratio or nil for an empty cell.
type Section struct {
	Name    string
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// Records formats the rows as text, the way they appear in CSV output
func (s Section) Records() [][]string {
	records := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = formatCell(v)
		}
		records[i] = record
	}
	return records
}

// SectionNames lists every exportable section in workbook order
func SectionNames() []string {
	return []string{
		domain.SectionRanking,
		domain.SectionSeasonality,
		domain.SectionMarginsTop,
		domain.SectionMarginsBottom,
		domain.SectionCategoryShare,
		domain.SectionProductsProfit,
		domain.SectionProductsUnit,
		SectionNotices,
	}
}

// Sections flattens a dashboard into tables; skipped sections are omitted
func Sections(d *domain.Dashboard) []Section {
	sections := []Section{ranking(d)}
	if d.HasSeasonality() {
		sections = append(sections, seasonality(d))
	}
	sections = append(sections,
		margins(domain.SectionMarginsTop, "Margins Top", d.Margins.Top),
		margins(domain.SectionMarginsBottom, "Margins Bottom", d.Margins.Bottom),
		shares(d),
	)
	if d.Products != nil {
		sections = append(sections,
			products(domain.SectionProductsProfit, "Products Profit", d.Products.DescriptionColumn, d.Products.TopProfit),
			products(domain.SectionProductsUnit, "Products Per Unit", d.Products.DescriptionColumn, d.Products.TopPerUnit),
		)
	}
	return append(sections, notices(d))
}

// SectionByName returns one table of the dashboard
func SectionByName(d *domain.Dashboard, name string) (Section, error) {
	known := false
	for _, n := range SectionNames() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return Section{}, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
	for _, s := range Sections(d) {
		if s.Name == name {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %s", ErrSectionUnavailable, name)
}

func ranking(d *domain.Dashboard) Section {
	s := Section{
		Name:    domain.SectionRanking,
		Sheet:   "Ranking",
		Headers: []string{"rank", "branch", "total_calc"},
	}
	for i, b := range d.Ranking {
		s.Rows = append(s.Rows, []interface{}{i + 1, b.Branch, b.TotalCalc})
	}
	return s
}

func seasonality(d *domain.Dashboard) Section {
	s := Section{
		Name:    domain.SectionSeasonality,
		Sheet:   "Seasonality",
		Headers: []string{"month", "total"},
	}
	for _, m := range d.Seasonality {
		s.Rows = append(s.Rows, []interface{}{m.Label, m.Total})
	}
	return s
}

func margins(name, sheet string, rows []domain.BranchMargin) Section {
	s := Section{
		Name:    name,
		Sheet:   sheet,
		Headers: []string{"branch", "revenue", "total_profit", "margin"},
	}
	for _, m := range rows {
		s.Rows = append(s.Rows, []interface{}{m.Branch, m.Revenue, m.TotalProfit, ratioCell(m.Margin)})
	}
	return s
}

func shares(d *domain.Dashboard) Section {
	headers := append([]string{"branch"}, d.Shares.Categories...)
	headers = append(headers, "total", "bev_share", "food_share")
	s := Section{
		Name:    domain.SectionCategoryShare,
		Sheet:   "Category Share",
		Headers: headers,
	}
	for _, r := range d.Shares.Rows {
		row := []interface{}{r.Branch}
		for _, c := range d.Shares.Categories {
			row = append(row, r.Revenue[c])
		}
		row = append(row, r.Total, ratioCell(r.BevShare), ratioCell(r.FoodShare))
		s.Rows = append(s.Rows, row)
	}
	return s
}

func products(name, sheet, descHeader string, rows []domain.ProductMetric) Section {
	if descHeader == "" {
		descHeader = "description"
	}
	s := Section{
		Name:    name,
		Sheet:   sheet,
		Headers: []string{descHeader, "qty", "revenue", "total_cost", "total_profit", "margin", "profit_per_unit"},
	}
	for _, p := range rows {
		s.Rows = append(s.Rows, []interface{}{
			p.Description, p.Qty, p.Revenue, p.TotalCost, p.TotalProfit,
			ratioCell(p.Margin), ratioCell(p.ProfitPerUnit),
		})
	}
	return s
}

func notices(d *domain.Dashboard) Section {
	s := Section{
		Name:    SectionNotices,
		Sheet:   "Notices",
		Headers: []string{"section", "kind", "message"},
	}
	for _, n := range d.Notices {
		s.Rows = append(s.Rows, []interface{}{n.Section, string(n.Kind), n.Message})
	}
	return s
}
