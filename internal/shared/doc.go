// Package shared holds helpers used across packages.
//
// The testutil subpackage provides dataset fixtures (small monthly,
// category and product CSV files written to a temp data directory) and a
// buffered slog handler for asserting on log output:
//
//	func TestSomething(t *testing.T) {
//	    dir := testutil.DataDir(t, testutil.MonthlyCSV, testutil.CategoryCSV, "")
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	}
//
// Nothing here may import domain packages.
package shared
