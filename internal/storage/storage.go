package storage

import (
	"context"

	"github.com/lbnlsj/eth-dex/internal/model"
)

// Storage defines a sink for resolved pool snapshots. Sinks are for
// diagnostics and history; the engine itself never reads them back.
type Storage interface {
	PutSnapshot(ctx context.Context, record model.SnapshotRecord) error
}
