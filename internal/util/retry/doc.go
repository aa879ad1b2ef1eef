// Package retry repeats an operation with a growing delay between attempts.
//
// [Do] is used by the test environment harness to ride out transient
// network failures while downloading the helm binary. Errors marked with
// [Permanent] end the loop immediately.
package retry
