package domain

import "time"

// BranchTotal is one line of the year ranking
type BranchTotal struct {
	Branch    string  `json:"branch"`
	TotalCalc float64 `json:"total_calc"`
}

// MonthTotal is one point of the seasonality series
type MonthTotal struct {
	Month string  `json:"month"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// BranchMargin is the profit margin of one branch across categories
type BranchMargin struct {
	Branch      string  `json:"branch"`
	Revenue     float64 `json:"revenue"`
	TotalProfit float64 `json:"total_profit"`
	Margin      Ratio   `json:"margin"`
}

// MarginSections holds the best and worst branches by margin
type MarginSections struct {
	Top    []BranchMargin `json:"top"`
	Bottom []BranchMargin `json:"bottom"`
}

// CategoryShare is one row of the branch x category revenue pivot
type CategoryShare struct {
	Branch    string             `json:"branch"`
	Revenue   map[string]float64 `json:"revenue"`
	Total     float64            `json:"total"`
	BevShare  Ratio              `json:"bev_share"`
	FoodShare Ratio              `json:"food_share"`
}

// ShareSection holds the pivot's category list and its top rows
type ShareSection struct {
	Categories []string        `json:"categories"`
	Rows       []CategoryShare `json:"rows"`
}

// ProductMetric is a product row with its derived ratios
type ProductMetric struct {
	Description   string  `json:"description"`
	Qty           float64 `json:"qty"`
	Revenue       float64 `json:"revenue"`
	TotalCost     float64 `json:"total_cost"`
	TotalProfit   float64 `json:"total_profit"`
	Margin        Ratio   `json:"margin"`
	ProfitPerUnit Ratio   `json:"profit_per_unit"`
}

// ProductSections holds the two product rankings
type ProductSections struct {
	DescriptionColumn string          `json:"description_column"`
	MinQty            int             `json:"min_qty"`
	TopProfit         []ProductMetric `json:"top_profit"`
	TopPerUnit        []ProductMetric `json:"top_per_unit"`
}

// Preview is the first rows of a table as loaded
type Preview struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
	Total  int        `json:"total_rows"`
}

// Previews holds the sample tables shown above the charts
type Previews struct {
	Monthly  Preview `json:"monthly"`
	Category Preview `json:"category"`
}

// NoticeKind classifies a soft condition that skipped a section
type NoticeKind string

const (
	NoticeInsufficientData NoticeKind = "insufficient_data"
)

// Dashboard sections, as named in notices and exports
const (
	SectionRanking        = "ranking"
	SectionSeasonality    = "seasonality"
	SectionMarginsTop     = "margins_top"
	SectionMarginsBottom  = "margins_bottom"
	SectionCategoryShare  = "category_share"
	SectionProducts       = "products"
	SectionProductsProfit = "products_profit"
	SectionProductsUnit   = "products_per_unit"
)

// Notice reports a section that could not be computed
type Notice struct {
	Section string     `json:"section"`
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Dashboard is the complete result of one render
type Dashboard struct {
	Year        int              `json:"year"`
	Years       []int            `json:"years"`
	TopN        int              `json:"top_n"`
	MinQty      int              `json:"min_qty"`
	Ranking     []BranchTotal    `json:"ranking"`
	Seasonality []MonthTotal     `json:"seasonality,omitempty"`
	Margins     MarginSections   `json:"margins"`
	Shares      ShareSection     `json:"category_share"`
	Products    *ProductSections `json:"products,omitempty"`
	Previews    Previews         `json:"previews"`
	Notices     []Notice         `json:"notices"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// HasSeasonality reports whether the seasonality section was computed
func (d *Dashboard) HasSeasonality() bool {
	return d.Seasonality != nil
}

// DatasetStatus describes a default dataset file on disk
type DatasetStatus struct {
	Dataset  Dataset   `json:"dataset"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Present  bool      `json:"present"`
	Required bool      `json:"required"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified,omitempty"`
}
