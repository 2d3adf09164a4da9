package dataset

import "fmt"

// #region errors

// InsufficientPoolError reports a labeling request larger than the pool.
type InsufficientPoolError struct {
	Requested int
	PoolSize  int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("requested %d labels but pool holds %d", e.Requested, e.PoolSize)
}

// InvalidIndexError reports a labeling request for an index that is not
// currently in the pool: out of range, or already labeled.
type InvalidIndexError struct {
	Index int
	Size  int
}

func (e *InvalidIndexError) Error() string {
	if e.Index < 0 || e.Index >= e.Size {
		return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Size)
	}
	return fmt.Sprintf("index %d is already labeled", e.Index)
}

// #endregion errors
