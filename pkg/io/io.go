// Package io holds the generic pull-based plumbing shared by the audio and
// video pipelines.
package io

// Reader is a generic reader. release must be called once the caller no
// longer uses the returned data.
type Reader[T any] interface {
	Read() (data T, release func(), err error)
}

// ReaderFunc is a proxy type to make easier for users to implement Reader
type ReaderFunc[T any] func() (data T, release func(), err error)

func (f ReaderFunc[T]) Read() (T, func(), error) {
	return f()
}
