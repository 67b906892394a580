package domain

import (
	"fmt"
	"strings"
)

const (
	FirstModernYear     = 1960
	FirstHistoricalYear = 1892
	LatestElectionYear  = 2024
	electionCycle       = 4
)

// firstYearByState lists states whose county-level presidential results
// start after 1892 because they had not yet voted as states.
var firstYearByState = map[string]int{
	"AK": 1960,
	"HI": 1960,
	"AZ": 1912,
	"NM": 1912,
	"OK": 1908,
}

// ModernElectionYears returns the years usable for swing analysis.
func ModernElectionYears() []int {
	return yearsBetween(FirstModernYear, LatestElectionYear)
}

// HistoricalElectionYears returns every year accepted by the import path.
func HistoricalElectionYears() []int {
	return yearsBetween(FirstHistoricalYear, LatestElectionYear)
}

func yearsBetween(from, to int) []int {
	years := make([]int, 0, (to-from)/electionCycle+1)
	for y := from; y <= to; y += electionCycle {
		years = append(years, y)
	}
	return years
}

func isCycleYear(year, first int) bool {
	return year >= first && year <= LatestElectionYear && (year-first)%electionCycle == 0
}

func IsModernElectionYear(year int) bool {
	return isCycleYear(year, FirstModernYear)
}

func IsHistoricalElectionYear(year int) bool {
	return isCycleYear(year, FirstHistoricalYear)
}

// HasStateData reports whether county results can exist for the state in
// the given year. Unknown states fall back to the plain year check.
func HasStateData(stateAbbr string, year int) bool {
	if !IsHistoricalElectionYear(year) {
		return false
	}
	first, ok := firstYearByState[strings.ToUpper(stateAbbr)]
	return !ok || year >= first
}

// ValidateSwingYears rejects any year outside the modern set.
func ValidateSwingYears(fromYear, toYear int) error {
	if !IsModernElectionYear(fromYear) {
		return fmt.Errorf("%w: fromYear %d is not a valid election year", ErrInvalidYear, fromYear)
	}
	if !IsModernElectionYear(toYear) {
		return fmt.Errorf("%w: toYear %d is not a valid election year", ErrInvalidYear, toYear)
	}
	return nil
}
