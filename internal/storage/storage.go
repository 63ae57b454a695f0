package storage

import "poolDetails/internal/model"

// Storage defines a sink for formatted pool records.
type Storage interface {
	PutRecords(records []model.PoolRecord) error
}
