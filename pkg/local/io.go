package local

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/nemanja-m/gosum/pkg/core"
)

const (
	DefaultBufferSize = 1024 * 1024 // 1MB
)

// FindFiles expands glob patterns (including **) to the regular files they
// match, in pattern order.
func FindFiles(patterns ...string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range matches {
			info, err := os.Lstat(name)
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				files = append(files, name)
			}
		}
	}
	return files, nil
}

// ReadSequence reads whitespace separated int32 values from the given files
// and concatenates them in order.
func ReadSequence(paths ...string) (core.Sequence, error) {
	var seq core.Sequence
	for _, path := range paths {
		values, err := readValues(path, DefaultBufferSize)
		if err != nil {
			return nil, err
		}
		seq = append(seq, values...)
	}
	return seq, nil
}

func readValues(filePath string, bufferSize int) ([]int32, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, bufferSize), bufferSize)
	scanner.Split(bufio.ScanWords)

	var values []int32
	for scanner.Scan() {
		v, err := strconv.ParseInt(scanner.Text(), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: value %d: %w", filePath, len(values)+1, err)
		}
		values = append(values, int32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// RandomSequence returns length values drawn uniformly from [minValue,
// maxValue]. The same seed always yields the same sequence.
func RandomSequence(length int, minValue, maxValue int32, seed uint64) (core.Sequence, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: length must be >= 0, got %d", core.ErrInvalidArgument, length)
	}
	if minValue > maxValue {
		return nil, fmt.Errorf("%w: min value %d exceeds max value %d", core.ErrInvalidArgument, minValue, maxValue)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	span := int64(maxValue) - int64(minValue) + 1

	seq := make(core.Sequence, length)
	for i := range seq {
		seq[i] = int32(int64(minValue) + rng.Int64N(span))
	}
	return seq, nil
}
