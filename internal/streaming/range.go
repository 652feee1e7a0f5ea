package streaming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidRange means the Range header cannot be used and the full
	// body should be served instead.
	ErrInvalidRange = errors.New("invalid range")

	// ErrRangeNotSatisfiable means the requested range lies outside the body.
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
)

// ByteRange is an inclusive byte range within a body of Size bytes.
type ByteRange struct {
	Start int64
	End   int64
	Size  int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the range for the Content-Range header.
func (r ByteRange) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.Size)
}

// FullRange covers a whole body of size bytes. It is only meaningful for
// non-empty bodies.
func FullRange(size int64) ByteRange {
	return ByteRange{Start: 0, End: size - 1, Size: size}
}

// UnsatisfiedContentRange is the Content-Range value for a 416 response.
func UnsatisfiedContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// ParseRange parses a single-range "bytes=" header against a body of size
// bytes.
func ParseRange(header string, size int64) (ByteRange, error) {
	header = strings.TrimSpace(header)
	set, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return ByteRange{}, ErrInvalidRange
	}
	set = strings.TrimSpace(set)
	if set == "" || strings.Contains(set, ",") {
		return ByteRange{}, ErrInvalidRange
	}

	startStr, endStr, ok := strings.Cut(set, "-")
	if !ok {
		return ByteRange{}, ErrInvalidRange
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" {
		// Suffix form: the last n bytes.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n < 0 {
			return ByteRange{}, ErrInvalidRange
		}
		if n == 0 || size == 0 {
			return ByteRange{}, ErrRangeNotSatisfiable
		}
		if n > size {
			n = size
		}
		return ByteRange{Start: size - n, End: size - 1, Size: size}, nil
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, ErrInvalidRange
	}

	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < start {
			return ByteRange{}, ErrInvalidRange
		}
		if end > size-1 {
			end = size - 1
		}
	}

	if start >= size {
		return ByteRange{}, ErrRangeNotSatisfiable
	}

	return ByteRange{Start: start, End: end, Size: size}, nil
}
