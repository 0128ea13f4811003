package dataset

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/shared/testutil"
	"salespulse/pkg/contracts/domain"
)

func newTestLoader(t *testing.T, cache Cache) *Loader {
	logger, _ := testutil.NewTestLogger(t)
	return NewLoader(cache, logger)
}

func TestLoaderDefaults(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, testutil.ProductCSV)
	loader := newTestLoader(t, NopCache{})

	ds, err := loader.Load(context.Background(), Sources{DataDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Monthly.Len())
	assert.Equal(t, 5, ds.Category.Len())
	product, ok := ds.Product.Get()
	require.True(t, ok)
	assert.Equal(t, 4, product.Len())
}

func TestLoaderProductOptional(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, "")
	loader := newTestLoader(t, NopCache{})

	ds, err := loader.Load(context.Background(), Sources{DataDir: dir})
	require.NoError(t, err)
	assert.False(t, ds.Product.IsPresent())
	assert.Contains(t, ds.Product.Reason(), "not found")
}

func TestLoaderCorruptDefaultProductIsAbsent(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, "a,b\n\"broken,1\n")
	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(NopCache{}, logger)

	ds, err := loader.Load(context.Background(), Sources{DataDir: dir})
	require.NoError(t, err)
	assert.False(t, ds.Product.IsPresent())
	assert.Contains(t, ds.Product.Reason(), "could not be read")
	assert.True(t, handler.ContainsMessage("default product file unreadable, skipping product section"))
}

func TestLoaderErrors(t *testing.T) {
	tests := []struct {
		name        string
		monthly     string
		category    string
		src         func(dir string) Sources
		wantDataset domain.Dataset
		wantSource  string
	}{
		{
			name:        "missing monthly file",
			category:    testutil.CategoryCSV,
			src:         func(dir string) Sources { return Sources{DataDir: dir} },
			wantDataset: domain.DatasetMonthly,
		},
		{
			name:        "empty category file",
			monthly:     testutil.MonthlyCSV,
			category:    "",
			src:         func(dir string) Sources { return Sources{DataDir: dir, Category: &Upload{Filename: "c.csv"}} },
			wantDataset: domain.DatasetCategory,
			wantSource:  "upload:c.csv",
		},
		{
			name:     "corrupt product upload",
			monthly:  testutil.MonthlyCSV,
			category: testutil.CategoryCSV,
			src: func(dir string) Sources {
				return Sources{DataDir: dir, Product: &Upload{Filename: "p.csv", Data: []byte("a\n\"x\n")}}
			},
			wantDataset: domain.DatasetProduct,
			wantSource:  "upload:p.csv",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.DataDir(t, tt.monthly, tt.category, "")
			loader := newTestLoader(t, NopCache{})

			_, err := loader.Load(context.Background(), tt.src(dir))
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.wantDataset, loadErr.Dataset)
			if tt.wantSource != "" {
				assert.Equal(t, tt.wantSource, loadErr.Source)
			}
			assert.Contains(t, err.Error(), string(tt.wantDataset))
		})
	}
}

func TestLoaderMissingFileWrapsNotExist(t *testing.T) {
	loader := newTestLoader(t, NopCache{})
	_, err := loader.Load(context.Background(), Sources{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoaderUploadOverridesDefault(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, "")
	loader := newTestLoader(t, NopCache{})

	upload := &Upload{Filename: "mine.csv", Data: []byte("year,branch,total_calc\n2030,Solo,1\n")}
	ds, err := loader.Load(context.Background(), Sources{DataDir: dir, Monthly: upload})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Monthly.Len())
	assert.Equal(t, "mine.csv", ds.Monthly.Name())
	assert.Equal(t, 5, ds.Category.Len())
}

func TestLoaderCacheSignature(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, "")
	cache := NewMemoryCache(0)
	loader := newTestLoader(t, cache)
	ctx := context.Background()

	_, err := loader.Load(ctx, Sources{DataDir: dir})
	require.NoError(t, err)
	missesAfterFirst := cache.Stats().Misses

	_, err = loader.Load(ctx, Sources{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, missesAfterFirst, cache.Stats().Misses, "unchanged files should hit")
	assert.Equal(t, int64(2), cache.Stats().Hits)

	path := filepath.Join(dir, testutil.MonthlyFile)
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	_, err = loader.Load(ctx, Sources{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, missesAfterFirst+1, cache.Stats().Misses, "mtime change should miss")
}

func TestLoaderUploadCacheByContent(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, "")
	cache := NewMemoryCache(0)
	loader := newTestLoader(t, cache)
	ctx := context.Background()

	data := []byte(testutil.CategoryCSV)
	_, err := loader.Load(ctx, Sources{DataDir: dir, Category: &Upload{Filename: "a.csv", Data: data}})
	require.NoError(t, err)
	hits := cache.Stats().Hits

	_, err = loader.Load(ctx, Sources{DataDir: dir, Category: &Upload{Filename: "b.csv", Data: data}})
	require.NoError(t, err)
	assert.Equal(t, hits+2, cache.Stats().Hits)
}

func TestInspect(t *testing.T) {
	dir := testutil.DataDir(t, testutil.MonthlyCSV, "", "")
	statuses := Inspect(dir)
	require.Len(t, statuses, 3)

	assert.Equal(t, domain.DatasetMonthly, statuses[0].Dataset)
	assert.True(t, statuses[0].Present)
	assert.True(t, statuses[0].Required)
	assert.Equal(t, int64(len(testutil.MonthlyCSV)), statuses[0].Size)

	assert.False(t, statuses[1].Present)
	assert.False(t, statuses[2].Required)
}
