package core

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTaskInterrupted = errors.New("task interrupted")
)

// Sequence is the input of a summation. It is never mutated once built and
// is shared read-only by every task of a reduction.
type Sequence []int32

// Partition is a half-open index range [Start, End) into a Sequence.
type Partition struct {
	Start int
	End   int
}

func (p Partition) Len() int {
	return p.End - p.Start
}

func (p Partition) Empty() bool {
	return p.End <= p.Start
}

// SequentialSum returns the sum of seq[start:end] in a 64-bit accumulator.
// Bounds are clamped to the sequence, so an out of range end never reads
// past len(seq).
func SequentialSum(seq Sequence, start, end int) int64 {
	end = min(end, len(seq))
	start = max(start, 0)
	if start >= end {
		return 0
	}

	var sum int64
	for _, v := range seq[start:end] {
		sum += int64(v)
	}
	return sum
}
