// Package marketdata holds historical closing-price series: the
// date-ordered input the statistics adapter trains on. Prices are kept
// as decimals at this layer and converted to float64 only at the
// simulation boundary.
package marketdata

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Point is one trading day's closing price.
type Point struct {
	Date  time.Time
	Close decimal.Decimal
}

// Series is a date-ordered closing-price history with unique, ascending
// dates. It is immutable after construction.
type Series struct {
	points []Point
	index  map[int64]int // unix day -> position
}

// DateNotFoundError reports a date that is not a trading day in the
// series.
type DateNotFoundError struct {
	Date time.Time
}

func (e *DateNotFoundError) Error() string {
	return fmt.Sprintf("date %s not present in series", e.Date.Format("2006-01-02"))
}

// InvertedRangeError reports a window whose start falls after its end.
type InvertedRangeError struct {
	Start, End time.Time
}

func (e *InvertedRangeError) Error() string {
	return fmt.Sprintf("window start %s is after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// NewSeries builds a series from points, sorting by date and rejecting
// duplicates. The statistics adapter trusts this ordering.
func NewSeries(points []Point) (*Series, error) {
	ps := make([]Point, len(points))
	copy(ps, points)
	sort.Slice(ps, func(i, j int) bool { return ps[i].Date.Before(ps[j].Date) })

	index := make(map[int64]int, len(ps))
	for i, p := range ps {
		key := dayKey(p.Date)
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("duplicate date %s in series", p.Date.Format("2006-01-02"))
		}
		index[key] = i
	}
	return &Series{points: ps, index: index}, nil
}

func dayKey(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

// Len returns the number of trading days.
func (s *Series) Len() int { return len(s.points) }

// At returns the i'th point in date order.
func (s *Series) At(i int) Point { return s.points[i] }

// IndexOf returns the position of a trading date.
func (s *Series) IndexOf(date time.Time) (int, bool) {
	i, ok := s.index[dayKey(date)]
	return i, ok
}

// CloseAt returns the closing price on a trading date.
func (s *Series) CloseAt(date time.Time) (decimal.Decimal, error) {
	i, ok := s.IndexOf(date)
	if !ok {
		return decimal.Decimal{}, &DateNotFoundError{Date: date}
	}
	return s.points[i].Close, nil
}

// Window returns the closing prices of the inclusive [start, end]
// training window as float64, ready for log-return computation. Both
// bounds must be trading dates in the series.
func (s *Series) Window(start, end time.Time) ([]float64, error) {
	lo, ok := s.IndexOf(start)
	if !ok {
		return nil, &DateNotFoundError{Date: start}
	}
	hi, ok := s.IndexOf(end)
	if !ok {
		return nil, &DateNotFoundError{Date: end}
	}
	if lo > hi {
		return nil, &InvertedRangeError{Start: start, End: end}
	}

	closes := make([]float64, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		f, _ := s.points[i].Close.Float64()
		closes = append(closes, f)
	}
	return closes, nil
}

// FuturePrice returns the closing price `steps` trading days after the
// given date, when the series extends that far.
func (s *Series) FuturePrice(date time.Time, steps int) (decimal.Decimal, bool) {
	i, ok := s.IndexOf(date)
	if !ok {
		return decimal.Decimal{}, false
	}
	j := i + steps
	if j >= len(s.points) {
		return decimal.Decimal{}, false
	}
	return s.points[j].Close, true
}

// MaxPredictionDays returns how many trading days remain after the
// given date, for bounding a forecast horizon against realized data.
func (s *Series) MaxPredictionDays(date time.Time) (int, bool) {
	i, ok := s.IndexOf(date)
	if !ok {
		return 0, false
	}
	return len(s.points) - 1 - i, true
}
