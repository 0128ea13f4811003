package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Total Profit", "total_profit"},
		{"Qty", "qty"},
		{"  branch ", "branch"},
		{"\uFEFFyear", "year"},
		{"Total-Cost", "total_cost"},
		{"Product Desc", "product_desc"},
		{"product_desc", "product_desc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.in))
		})
	}
}

func TestParseTable(t *testing.T) {
	t.Run("strips BOM and canonicalizes header", func(t *testing.T) {
		tbl, err := ParseTable("m.csv", strings.NewReader("\uFEFFYear,Branch,Total Calc\n2025,A,10\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Year", "Branch", "Total Calc"}, tbl.Header())
		assert.Equal(t, []string{"year", "branch", "total_calc"}, tbl.Columns())
		assert.True(t, tbl.Has("total_calc"))
		assert.True(t, tbl.Has("TOTAL CALC"))
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("pads short rows and truncates long rows", func(t *testing.T) {
		tbl, err := ParseTable("r.csv", strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1", "", ""}, {"1", "2", "3"}}, tbl.Head(5))
	})

	t.Run("quoted fields", func(t *testing.T) {
		tbl, err := ParseTable("q.csv", strings.NewReader("name,value\n\"Latte, large\",\"1,200\"\n"))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Latte, large", "1,200"}}, tbl.Head(1))
	})

	t.Run("empty input has no header", func(t *testing.T) {
		_, err := ParseTable("e.csv", strings.NewReader(""))
		assert.ErrorIs(t, err, ErrNoHeader)
	})

	t.Run("header only", func(t *testing.T) {
		tbl, err := ParseTable("h.csv", strings.NewReader("year,branch\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.Len())
		assert.Empty(t, tbl.Head(10))
	})

	t.Run("malformed quoting", func(t *testing.T) {
		_, err := ParseTable("bad.csv", strings.NewReader("a,b\n\"x,1\n"))
		assert.Error(t, err)
	})
}

func TestTableCloneIsIndependent(t *testing.T) {
	tbl := NewTable("t", []string{"a"}, [][]string{{"1"}, {"2"}})
	clone := tbl.Clone()
	clone.rows[0][0] = "changed"

	assert.Equal(t, "1", tbl.Head(1)[0][0])
	assert.Equal(t, tbl.Columns(), clone.Columns())
}

func TestDecoderHeaderDuplicates(t *testing.T) {
	tbl := NewTable("d", []string{"Revenue", "revenue", "REVENUE", "qty"}, nil)
	assert.Equal(t, []string{"revenue", "revenue.1", "revenue.2", "qty"}, tbl.decoderHeader())
	assert.Equal(t, 0, tbl.ColumnIndex("Revenue"))
	assert.Equal(t, -1, tbl.ColumnIndex("missing"))
}

func TestTablePreview(t *testing.T) {
	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"r"}
	}
	p := NewTable("t", []string{"Col"}, rows).Preview(10)
	assert.Equal(t, []string{"Col"}, p.Header)
	assert.Len(t, p.Rows, 10)
	assert.Equal(t, 12, p.Total)
}
