package collectors

import "time"

// Resource is the last known state of one fetched source as seen by the
// widget that owns it. A failed refresh keeps the previous Data and records
// the error; a successful one replaces Data and clears the error.
type Resource[T any] struct {
	Data      *T
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

// NewResource returns a resource waiting for its first result.
func NewResource[T any]() Resource[T] {
	return Resource[T]{Loading: true}
}

// Apply folds one fetch result into the resource.
func (r *Resource[T]) Apply(data T, err error, at time.Time) {
	r.Loading = false
	if err != nil {
		r.Err = err
		return
	}
	r.Data = &data
	r.Err = nil
	r.UpdatedAt = at
}

// ApplyUpdate folds an untyped update into the resource. Data of the wrong
// type is treated as a failed fetch.
func (r *Resource[T]) ApplyUpdate(data interface{}, err error, at time.Time) {
	if err != nil {
		var zero T
		r.Apply(zero, err, at)
		return
	}
	v, ok := data.(T)
	if !ok {
		var zero T
		r.Apply(zero, &UnexpectedDataError{Got: data}, at)
		return
	}
	r.Apply(v, nil, at)
}

// Ready reports whether the resource holds data, stale or not.
func (r Resource[T]) Ready() bool {
	return r.Data != nil
}

// Status is the inline label a widget shows when it has nothing else to
// render: "" when data is present.
func (r Resource[T]) Status() string {
	switch {
	case r.Data != nil:
		return ""
	case r.Err != nil:
		return StatusFailed
	default:
		return StatusLoading
	}
}

// Inline labels shown in place of missing data.
const (
	StatusLoading = "取得中..."
	StatusFailed  = "取得失敗"
)
