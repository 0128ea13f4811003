// Package analytics derives the dashboard sections from decoded rows.
//
// Every function is pure: the same rows and parameters always produce the
// same result, and inputs are never modified. Ratios follow one division
// policy (see Divide) and undefined ratios sort after every defined value.
package analytics
