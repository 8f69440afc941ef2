package jsonfile

import (
	"context"
	"fmt"

	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
)

// VehicleRepository is the file-backed implementation of
// repository.VehicleStore. Each type keeps its own file, mirroring the
// bikes/cars/scooty split of the original data directory.
type VehicleRepository struct {
	s *Store
}

func vehicleFile(vehicleType string) (string, error) {
	switch vehicleType {
	case vehicle_models.TypeBike:
		return "bikes.json", nil
	case vehicle_models.TypeCar:
		return "cars.json", nil
	case vehicle_models.TypeScooty:
		return "scooty.json", nil
	default:
		return "", fmt.Errorf("unknown vehicle type %q", vehicleType)
	}
}

func (r *VehicleRepository) load(vehicleType string) ([]vehicle_models.Vehicle, string, error) {
	file, err := vehicleFile(vehicleType)
	if err != nil {
		return nil, "", err
	}
	var vehicles []vehicle_models.Vehicle
	if err := r.s.readAll(file, &vehicles); err != nil {
		return nil, "", err
	}
	// older data files omit the type field; normalize on the way in
	for i := range vehicles {
		if vehicles[i].Type == "" {
			vehicles[i].Type = vehicleType
		}
	}
	return vehicles, file, nil
}

// Create appends a vehicle to its type's file, assigning the next ID.
func (r *VehicleRepository) Create(ctx context.Context, v *vehicle_models.Vehicle) (*vehicle_models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	vehicles, file, err := r.load(v.Type)
	if err != nil {
		return nil, err
	}

	var maxID int64
	for i := range vehicles {
		if vehicles[i].ID > maxID {
			maxID = vehicles[i].ID
		}
	}
	v.ID = maxID + 1

	vehicles = append(vehicles, *v)
	if err := r.s.writeAll(file, vehicles); err != nil {
		return nil, err
	}
	return v, nil
}

// GetByID fetches one vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, vehicleType string, id int64) (*vehicle_models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	vehicles, _, err := r.load(vehicleType)
	if err != nil {
		return nil, err
	}
	for i := range vehicles {
		if vehicles[i].ID == id {
			v := vehicles[i]
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListByType returns every vehicle of one type.
func (r *VehicleRepository) ListByType(ctx context.Context, vehicleType string) ([]vehicle_models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	vehicles, _, err := r.load(vehicleType)
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListAll returns the whole catalog across all three files.
func (r *VehicleRepository) ListAll(ctx context.Context) ([]vehicle_models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var all []vehicle_models.Vehicle
	for _, t := range []string{vehicle_models.TypeBike, vehicle_models.TypeCar, vehicle_models.TypeScooty} {
		vehicles, _, err := r.load(t)
		if err != nil {
			return nil, err
		}
		all = append(all, vehicles...)
	}
	return all, nil
}

func (r *VehicleRepository) mutate(vehicleType string, id int64, fn func(*vehicle_models.Vehicle)) error {
	vehicles, file, err := r.load(vehicleType)
	if err != nil {
		return err
	}
	for i := range vehicles {
		if vehicles[i].ID == id {
			fn(&vehicles[i])
			return r.s.writeAll(file, vehicles)
		}
	}
	return repository.ErrNotFound
}

// Update overwrites a vehicle record.
func (r *VehicleRepository) Update(ctx context.Context, v *vehicle_models.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.mutate(v.Type, v.ID, func(stored *vehicle_models.Vehicle) {
		*stored = *v
	})
}

// SetAvailability flips the derived availability flag.
func (r *VehicleRepository) SetAvailability(ctx context.Context, vehicleType string, id int64, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.mutate(vehicleType, id, func(stored *vehicle_models.Vehicle) {
		stored.IsAvailable = available
	})
}

// Delete removes a vehicle from its file.
func (r *VehicleRepository) Delete(ctx context.Context, vehicleType string, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	vehicles, file, err := r.load(vehicleType)
	if err != nil {
		return err
	}
	for i := range vehicles {
		if vehicles[i].ID == id {
			vehicles = append(vehicles[:i], vehicles[i+1:]...)
			return r.s.writeAll(file, vehicles)
		}
	}
	return repository.ErrNotFound
}
