package internal

import (
	"iter"
)

// IterSeqLimit yields at most count values from seq. A count of zero or
// less yields all of seq.
func IterSeqLimit[T any](seq iter.Seq[T], count int) iter.Seq[T] {
	if count <= 0 {
		return seq
	}

	return func(yield func(T) bool) {
		var n int
		for val := range seq {
			if !yield(val) {
				return // Stop if the consumer stops
			}
			n++
			if n == count {
				return
			}
		}
	}
}

// IterSeqUntil yields values from seq up to and including the first
// value for which done returns true.
func IterSeqUntil[T any](seq iter.Seq[T], done func(T) bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		for val := range seq {
			if !yield(val) {
				return // Stop if the consumer stops
			}
			if done(val) {
				return
			}
		}
	}
}
