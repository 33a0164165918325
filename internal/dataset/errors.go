package dataset

import (
	"errors"
	"fmt"
)

// ErrDataLoad is matched by every error returned from a failed load.
var ErrDataLoad = errors.New("data load failed")

// DataLoadError reports why a dataset file could not be turned into a Dataset.
type DataLoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	msg := fmt.Sprintf("load %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataLoad) true for any *DataLoadError.
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

func loadError(path, reason string, err error) *DataLoadError {
	return &DataLoadError{Path: path, Reason: reason, Err: err}
}
