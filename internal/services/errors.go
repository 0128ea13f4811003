package services

import (
	"errors"
	"fmt"
)

// Dashboard service errors
var (
	ErrYearNotFound   = errors.New("year not found")
	ErrNoMonthlyRows  = errors.New("monthly dataset has no rows")
	ErrUnknownSection = errors.New("unknown dashboard section")
)

// YearNotFoundError reports a selected year absent from the monthly table
type YearNotFoundError struct {
	Year      int
	Available []int
}

func (e *YearNotFoundError) Error() string {
	return fmt.Sprintf("year %d not found in monthly dataset (available: %v)", e.Year, e.Available)
}

// Is matches ErrYearNotFound
func (e *YearNotFoundError) Is(target error) bool {
	return target == ErrYearNotFound
}
