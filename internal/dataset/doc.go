// Package dataset loads the dashboard's CSV inputs and checks their columns.
//
// Tables are read either from the well-known files in the data directory or
// from uploaded byte streams, parsed once and memoized in a Cache keyed by
// source identity. Column lookups go through canonical keys so that
// "Total Profit", "total_profit" and "TOTAL-PROFIT" address the same column.
//
// Typed rows are decoded with csvutil only after the table passed Validate;
// decoding an unvalidated table panics.
package dataset
