// Package measurements persists recorded weights. For the authentication gate
// it is the data-reset collaborator: ClearAllMeasurements wipes every record.
package measurements

import (
	"context"

	"github.com/dmitrijs2005/weightkeeper/internal/client/models"
)

type Repository interface {
	// Add stores m. An empty ID is replaced with a new UUID; the stored copy is returned.
	Add(ctx context.Context, m models.Measurement) (models.Measurement, error)

	// List returns all measurements, newest first.
	List(ctx context.Context) ([]models.Measurement, error)

	Count(ctx context.Context) (int, error)

	// ClearAllMeasurements removes every measurement.
	ClearAllMeasurements(ctx context.Context) error
}
