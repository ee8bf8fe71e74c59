// Package shamsi converts between the Persian solar (Shamsi/Jalali) calendar
// and the Gregorian calendar.
//
// Dates travel through the API as strings: Shamsi dates as "YYYY/MM/DD" and
// Gregorian dates as "YYYY-MM-DD".
package shamsi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Accepted range for birth dates entered by customers.
const (
	MinYear = 1300
	MaxYear = 1450
)

// ErrConversionFailed is returned when a string cannot be converted to a
// Gregorian date.
var ErrConversionFailed = errors.New("shamsi: conversion failed")

// Tehran is Iran Standard Time. Iran has not observed daylight saving since 2022.
var Tehran = time.FixedZone("IRST", 3*60*60+30*60)

// Date is a day in the Shamsi calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as "YYYY/MM/DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Gregorian returns the equivalent Gregorian date.
func (d Date) Gregorian() GregorianDate {
	return toGregorian(d.Year, d.Month, d.Day)
}

// GregorianDate is a day in the Gregorian calendar.
type GregorianDate struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as "YYYY-MM-DD".
func (g GregorianDate) String() string {
	return fmt.Sprintf("%d-%02d-%02d", g.Year, g.Month, g.Day)
}

// Time returns midnight UTC of the date.
func (g GregorianDate) Time() time.Time {
	return time.Date(g.Year, time.Month(g.Month), g.Day, 0, 0, 0, 0, time.UTC)
}

// IsValid reports whether input is a well formed Shamsi date in the accepted
// range. Month and day are only range checked (1-12, 1-31); the number of
// days in a particular month is not.
func IsValid(input string) bool {
	d, err := Parse(input)
	if err != nil {
		return false
	}

	if d.Year < MinYear || d.Year > MaxYear {
		return false
	}
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	if d.Day < 1 || d.Day > 31 {
		return false
	}

	return true
}

// Parse splits input into its three numeric parts. It performs no range
// checks; use IsValid for that.
func Parse(input string) (Date, error) {
	parts := strings.Split(input, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q is not in YYYY/MM/DD form", ErrConversionFailed, input)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q has a non-numeric part", ErrConversionFailed, input)
		}
		nums[i] = n
	}

	return Date{Year: nums[0], Month: nums[1], Day: nums[2]}, nil
}

// ToGregorian converts a "YYYY/MM/DD" Shamsi date. It does not validate the
// range of the parts, so callers should check IsValid first.
func ToGregorian(input string) (GregorianDate, error) {
	d, err := Parse(input)
	if err != nil {
		return GregorianDate{}, err
	}
	return d.Gregorian(), nil
}

// ToGregorianString is ToGregorian for callers that want a plain string. It
// returns "" when the conversion fails.
func ToGregorianString(input string) string {
	g, err := ToGregorian(input)
	if err != nil {
		return ""
	}
	return g.String()
}

// FromTime returns the Shamsi date of t in t's location.
func FromTime(t time.Time) Date {
	y, m, d := fromGregorian(t.Year(), int(t.Month()), t.Day())
	return Date{Year: y, Month: m, Day: d}
}

func toGregorian(jy, jm, jd int) GregorianDate {
	var gy int
	if jy > 979 {
		gy = 1600
		jy -= 979
	} else {
		gy = 621
	}

	days := 365*jy + (jy/33)*8 + ((jy%33)+3)/4 + 78 + jd
	if jm < 7 {
		days += (jm - 1) * 31
	} else {
		days += (jm-7)*30 + 186
	}

	gy += 400 * (days / 146097)
	days %= 146097

	if days > 36524 {
		days--
		gy += 100 * (days / 36524)
		days %= 36524
		if days >= 365 {
			days++
		}
	}

	gy += 4 * (days / 1461)
	days %= 1461

	if days > 365 {
		gy += (days - 1) / 365
		days = (days - 1) % 365
	}

	gd := days + 1
	monthDays := [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if isGregorianLeap(gy) {
		monthDays[2] = 29
	}

	gm := 0
	for gm < 13 && gd > monthDays[gm] {
		gd -= monthDays[gm]
		gm++
	}

	return GregorianDate{Year: gy, Month: gm, Day: gd}
}

func fromGregorian(gy, gm, gd int) (int, int, int) {
	y := gy - 1600
	days := 365*y + (y+3)/4 - (y+99)/100 + (y+399)/400
	for m := 1; m < gm; m++ {
		days += gregorianMonthDays(gy, m)
	}
	days += gd - 1

	jdn := days - 79
	np := jdn / 12053
	jdn %= 12053

	jy := 979 + 33*np + 4*(jdn/1461)
	jdn %= 1461

	if jdn >= 366 {
		jy += (jdn - 1) / 365
		jdn = (jdn - 1) % 365
	}

	if jdn < 186 {
		return jy, 1 + jdn/31, 1 + jdn%31
	}
	return jy, 7 + (jdn-186)/30, 1 + (jdn-186)%30
}

func gregorianMonthDays(year, month int) int {
	switch month {
	case 2:
		if isGregorianLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isGregorianLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// InTehran returns the Shamsi date of t as observed in Iran.
func InTehran(t time.Time) Date {
	return FromTime(t.In(Tehran))
}
