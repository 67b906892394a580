package ports

import (
	"context"
	"io"
)

type ImportReport struct {
	Rows     int
	Imported int
	Skipped  int
}

type ImportService interface {
	ImportCounties(ctx context.Context, r io.Reader) (ImportReport, error)
	ImportResults(ctx context.Context, r io.Reader) (ImportReport, error)
	ImportDemographics(ctx context.Context, r io.Reader) (ImportReport, error)
}
