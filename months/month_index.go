package months

import (
	"fmt"
	"time"
)

const PerYear = 12

var shortNames = [PerYear]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var serbianNames = [PerYear]string{
	"Januar", "Februar", "Mart", "April", "Maj", "Jun",
	"Jul", "Avgust", "Septembar", "Oktobar", "Novembar", "Decembar",
}

// Index is a simulated month counted from 1. Index 1 is January of the
// first simulated year.
type Index int

func (i Index) IsValid() bool {
	return i >= 1
}

// Month is the calendar month 1-12.
func (i Index) Month() int {
	return (int(i)-1)%PerYear + 1
}

// YearOffset is the number of whole years since the start of the simulation.
func (i Index) YearOffset() int {
	return (int(i) - 1) / PerYear
}

func (i Index) Add(n int) Index {
	return i + Index(n)
}

func (i Index) Compare(other Index) int {
	switch {
	case i < other:
		return -1
	case i > other:
		return 1
	default:
		return 0
	}
}

func (i Index) String() string {
	return fmt.Sprintf("Y%02d-%02d", i.YearOffset()+1, i.Month())
}

// Label formats the index as a calendar month when the simulation starts in
// January of baseYear.
func (i Index) Label(baseYear int) string {
	return fmt.Sprintf("%d-%02d", baseYear+i.YearOffset(), i.Month())
}

// Time is the first day of the calendar month the index points at.
func (i Index) Time(baseYear int) time.Time {
	return time.Date(baseYear+i.YearOffset(), time.Month(i.Month()), 1, 0, 0, 0, 0, time.UTC)
}

func FromMonthAndOffset(month, yearOffset int) Index {
	return Index(yearOffset*PerYear + month)
}

func ShortName(month int) string {
	if month < 1 || month > PerYear {
		return "?"
	}
	return shortNames[month-1]
}

func SerbianName(month int) string {
	if month < 1 || month > PerYear {
		return "?"
	}
	return serbianNames[month-1]
}

// Years rounds a number of months up to whole years.
func Years(n int) int {
	return (n + PerYear - 1) / PerYear
}
