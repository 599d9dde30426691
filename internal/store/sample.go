package store

import (
	"time"

	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/engine"
	"github.com/dracory/mole/shared/types"
)

// sampleRecord builds the read-only demo connection. It has no owner and
// is never persisted.
func sampleRecord(at time.Time) types.ConnectionRecord {
	return types.ConnectionRecord{
		ID:        constants.SampleConnectionID,
		Name:      "Sample Database",
		Engine:    engine.PostgreSQL.String(),
		Host:      "localhost",
		Port:      engine.PostgreSQL.DefaultPort(),
		Database:  "sample",
		Username:  "demo",
		IsSample:  true,
		Notes:     "Built-in demo connection",
		CreatedAt: at,
		UpdatedAt: at,
	}
}
