package ports

import (
	"context"

	"autoinsight/domain/dataset"
)

// DatasetReader loads a tabular file into a typed dataset.
type DatasetReader interface {
	ReadDataset(ctx context.Context, path string) (*dataset.Dataset, error)
}
