package arrowops

import "errors"

var (
	ErrUnsupportedDataType  = errors.New("unsupported data type")
	ErrColumnNotFound       = errors.New("column not found")
	ErrMultipleColumnsFound = errors.New("multiple columns found")
	ErrColumnAlreadyExists  = errors.New("column already exists")
	ErrNoDataLeft           = errors.New("no data left")
	ErrSchemasNotEqual      = errors.New("schemas not equal")
	ErrCSVHeaderMissing     = errors.New("csv header missing")
)
