package store

import "errors"

// Domain errors. Handlers check these with errors.Is to pick status codes;
// no error-message matching anywhere.
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAnimalNotFound   = errors.New("animal not found")
	ErrSampleNotFound   = errors.New("sample not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrCapacityFull     = errors.New("location capacity is full")
	ErrAnimalInactive   = errors.New("animal is not active")
	ErrLocationInUse    = errors.New("location has active animals")
	ErrSampleCompleted  = errors.New("sample result already recorded")
)
