package multipart

import (
	"fmt"
	"iter"
)

const (
	// DefaultChunkSize is the S3 minimum size of every part except the last.
	DefaultChunkSize int64 = 5 << 20
	// MaxParts is the highest part number S3-compatible backends accept.
	MaxParts = 10000
)

// Window is a byte range of the source that becomes one part.
type Window struct {
	PartNumber int32
	Offset     int64
	Length     int64
}

// End returns the exclusive end offset of the window.
func (w Window) End() int64 {
	return w.Offset + w.Length
}

// Splitter partitions a byte length into consecutive fixed-size windows.
type Splitter struct {
	total int64
	chunk int64
}

// NewSplitter validates the sizes and returns a splitter for total bytes.
func NewSplitter(total, chunk int64) (*Splitter, error) {
	if chunk <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunk)
	}
	if total < 0 {
		return nil, fmt.Errorf("total size must not be negative, got %d", total)
	}
	s := &Splitter{total: total, chunk: chunk}
	if s.Count() > MaxParts {
		return nil, fmt.Errorf("%d bytes at chunk size %d needs %d parts, limit is %d", total, chunk, s.Count(), MaxParts)
	}
	return s, nil
}

// Count returns the number of windows. An empty source still has one.
func (s *Splitter) Count() int {
	if s.total == 0 {
		return 1
	}
	return int((s.total + s.chunk - 1) / s.chunk)
}

// Windows yields the partition lazily. Every call starts over from part 1.
func (s *Splitter) Windows() iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if s.total == 0 {
			yield(Window{PartNumber: 1})
			return
		}
		var part int32 = 1
		for offset := int64(0); offset < s.total; offset += s.chunk {
			length := min(s.chunk, s.total-offset)
			if !yield(Window{PartNumber: part, Offset: offset, Length: length}) {
				return
			}
			part++
		}
	}
}
