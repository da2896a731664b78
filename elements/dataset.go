package elements

import (
	"fmt"
	"slices"
)

const (
	DefaultDatasetName       = "trips"
	DefaultNumeratorColumn   = "total_amount"
	DefaultDenominatorColumn = "trip_distance"
	DefaultDerivedColumn     = "fare_per_mile"
)

/*
* Dataset describes the one table shape the pipeline understands. The
* numeric columns are parsed as float64, every other column is carried
* through as text.
 */
type Dataset struct {
	name              string
	numeratorColumn   string
	denominatorColumn string
	derivedColumn     string
}

func NewDataset(name string) *Dataset {
	return &Dataset{
		name:              name,
		numeratorColumn:   DefaultNumeratorColumn,
		denominatorColumn: DefaultDenominatorColumn,
		derivedColumn:     DefaultDerivedColumn,
	}
}

func (obj *Dataset) Name() string {
	return obj.name
}

func (obj *Dataset) SetRatio(numerator, denominator, derived string) *Dataset {
	obj.numeratorColumn = numerator
	obj.denominatorColumn = denominator
	obj.derivedColumn = derived
	return obj
}

func (obj *Dataset) NumeratorColumn() string {
	return obj.numeratorColumn
}

func (obj *Dataset) DenominatorColumn() string {
	return obj.denominatorColumn
}

func (obj *Dataset) DerivedColumn() string {
	return obj.derivedColumn
}

func (obj *Dataset) NumericColumns() []string {
	return []string{obj.numeratorColumn, obj.denominatorColumn}
}

func (obj *Dataset) IsValid() error {
	if obj.name == "" {
		return fmt.Errorf("%w| name invalid", ErrDatasetInvalid)
	}
	cols := []string{obj.numeratorColumn, obj.denominatorColumn, obj.derivedColumn}
	if slices.Contains(cols, "") {
		return fmt.Errorf("%w| column names are required", ErrDatasetInvalid)
	}
	if obj.derivedColumn == obj.numeratorColumn || obj.derivedColumn == obj.denominatorColumn {
		return fmt.Errorf("%w| derived column %s overlaps an input column", ErrDatasetInvalid, obj.derivedColumn)
	}
	return nil
}
