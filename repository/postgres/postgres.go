package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
)

// NewStore wires the three PostgreSQL repositories over one pool.
func NewStore(db *pgxpool.Pool) *repository.Store {
	return &repository.Store{
		Bookings: NewBookingRepository(db),
		Vehicles: NewVehicleRepository(db),
		Users:    NewUserRepository(db),
	}
}

// vehicleTable maps a vehicle type to its table. The scooty collection keeps
// its singular name, matching the historical schema.
func vehicleTable(vehicleType string) (string, error) {
	switch vehicleType {
	case vehicle_models.TypeBike:
		return "bikes", nil
	case vehicle_models.TypeCar:
		return "cars", nil
	case vehicle_models.TypeScooty:
		return "scooty", nil
	default:
		return "", fmt.Errorf("unknown vehicle type %q", vehicleType)
	}
}
