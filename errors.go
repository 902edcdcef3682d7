package vecfilter

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecfilter/catalog"
	"github.com/hupe1980/vecfilter/hnsw"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrPointNotFound is returned when a search meets a point without attributes.
	ErrPointNotFound = errors.New("point not found")

	// ErrDuplicatePoint is returned when a PointID is added twice.
	ErrDuplicatePoint = errors.New("point already exists")

	// ErrClosed is returned by operations on a closed Index.
	ErrClosed = errors.New("index is closed")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidDimension indicates an invalid configured dimension.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidDimension struct {
	Dimension int
	cause     error
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

func (e *ErrInvalidDimension) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	var le *catalog.LookupError
	if errors.As(err, &le) {
		return fmt.Errorf("%w: %w", ErrPointNotFound, err)
	}

	// Duplicate unification.
	if errors.Is(err, catalog.ErrDuplicatePoint) || errors.Is(err, hnsw.ErrDuplicateLabel) {
		return fmt.Errorf("%w: %w", ErrDuplicatePoint, err)
	}

	// Dimension and argument normalization.
	var dm *hnsw.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}
	if errors.Is(err, hnsw.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}

	return err
}
