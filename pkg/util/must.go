package util

import (
	"fmt"
)

// Must can be used to wrap the invocation of a function that may return
// an error, and panic if an error occurs.
//
// This function should only be used in situations where failure can
// only be caused by a programming error, such as in tests or when
// creating a LongList from constant parameters.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("Unexpected error: %s", err))
	}
	return v
}
