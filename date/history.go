package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, value
	}
	return h.days[last], h.values[last]
}

// search returns the position of day, and whether it was found.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Append adds a point to the history.
//
// Existing value at that date is overwritten, so the last appended value wins.
func (h *History[T]) Append(on Date, v T) *History[T] {
	return h.Merge(on, v, func(_, v T) T { return v })
}

// Merge adds a point to the history, combining it with the existing value at that date if
// any.
func (h *History[T]) Merge(on Date, v T, merge func(old, v T) T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = merge(h.values[i], v)
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (value T, ok bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	return value, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
//
// The zero day means "now": the latest value is returned.
func (h *History[T]) ValueAsOf(day Date) (value T, ok bool) {
	if day.IsZero() {
		if len(h.days) == 0 {
			return value, false
		}
		_, value = h.Latest()
		return value, true
	}
	i, found := h.search(day)
	if found {
		return h.values[i], true
	}
	// `i` is where `day` would be inserted, the last entry before it is at i-1.
	if i == 0 {
		return value, false
	}
	return h.values[i-1], true
}
