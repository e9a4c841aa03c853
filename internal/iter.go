// Package internal holds iterator helpers shared by the z80step packages.
package internal

import (
	"cmp"
	"iter"
	"slices"
)

// IterSeq2Concat concatenates pair iterators, in order.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// IterSeq2Sorted yields the pairs of seq in key order. When a key repeats,
// the last value seen wins.
func IterSeq2Sorted[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		values := map[K]V{}
		for k, v := range seq {
			values[k] = v
		}

		keys := make([]K, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		for _, k := range keys {
			if !yield(k, values[k]) {
				return
			}
		}
	}
}
