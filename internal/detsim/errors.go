package detsim

import "errors"

var (
	// ErrConfig marks invalid detector or run parameters. Returned at construction
	// time, never by an exposure.
	ErrConfig = errors.New("detsim: invalid configuration")
	// ErrInput marks an unusable input image (nil, zero sized, negative or non-finite samples).
	ErrInput = errors.New("detsim: invalid input")
	// ErrFormat marks a malformed RAW image or frame archive.
	ErrFormat = errors.New("detsim: malformed data")
)
