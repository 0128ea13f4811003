package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Well-known dataset file names, mirrored here so fixtures stay free of
// dependencies on the packages under test.
const (
	MonthlyFile  = "clean_monthly_sales_file1.csv"
	CategoryFile = "clean_category_summary.csv"
	ProductFile  = "clean_items_file2.csv"
)

// MonthlyCSV is a small monthly sales table covering two years
const MonthlyCSV = `year,branch,total_calc,jan,feb,mar,apr
2024,Downtown,900,200,250,200,250
2025,Downtown,1200,300,300,300,300
2025,Airport,800,100,200,250,250
2025,Harbor,1200,400,300,250,250
`

// CategoryCSV is a category summary matching MonthlyCSV branches
const CategoryCSV = `branch,Category,Revenue,Total Profit
Downtown,BEVERAGES,600,180
Downtown,FOOD,400,80
Airport,BEVERAGES,300,60
Airport,FOOD,700,70
Harbor,BEVERAGES,500,150
`

// ProductCSV is a product detail table using the "Product Desc" alias
const ProductCSV = `Product Desc,Qty,Revenue,Total Cost,Total Profit
Latte,200,1000,600,400
Espresso,40,200,80,120
Croissant,120,480,360,120
Muffin,60,240,150,90
`

// WriteFile writes content to name inside dir and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// DataDir creates a temporary data directory holding the default datasets.
// Pass an empty string to omit a file.
func DataDir(t *testing.T, monthly, category, product string) string {
	t.Helper()

	dir := t.TempDir()
	if monthly != "" {
		WriteFile(t, dir, MonthlyFile, monthly)
	}
	if category != "" {
		WriteFile(t, dir, CategoryFile, category)
	}
	if product != "" {
		WriteFile(t, dir, ProductFile, product)
	}
	return dir
}
