package catalog

import "errors"

var (
	ErrRegistrarInvalid    = errors.New("partition registrar options invalid")
	ErrQueryNotSubmitted   = errors.New("query was not submitted")
	ErrTableNotFound       = errors.New("catalog table not found")
	ErrPartitionValueEmpty = errors.New("partition value is empty")
)
