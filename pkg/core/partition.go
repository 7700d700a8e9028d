package core

import "fmt"

// Partitions splits [0, length) into exactly workers contiguous ranges of
// ceil(length/workers) elements. Work is not rebalanced when workers does
// not divide length: the last range may be short and trailing ranges past
// the end are empty, with both bounds clamped to length.
func Partitions(length, workers int) ([]Partition, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidArgument, workers)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: length must be >= 0, got %d", ErrInvalidArgument, length)
	}

	size := (length + workers - 1) / workers

	partitions := make([]Partition, workers)
	for i := range partitions {
		partitions[i] = Partition{
			Start: min(i*size, length),
			End:   min((i+1)*size, length),
		}
	}
	return partitions, nil
}
