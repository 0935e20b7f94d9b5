package contracts

import "errors"

// Sentinel errors shared by the stages
var (
	// ErrEmptyDataset is returned when a stage receives zero rows it cannot work with
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrMissingColumn is returned when a required column is absent
	ErrMissingColumn = errors.New("required column missing")
)
