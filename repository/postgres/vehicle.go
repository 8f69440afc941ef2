package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
)

// VehicleRepository is the PostgreSQL implementation of
// repository.VehicleStore. Each vehicle type has its own structurally
// identical table.
type VehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, name, COALESCE(category, ''), price, is_available, COALESCE(status, ''), COALESCE(image_url, '')`

func scanVehicle(row pgx.Row, vehicleType string) (*vehicle_models.Vehicle, error) {
	v := &vehicle_models.Vehicle{Type: vehicleType}
	err := row.Scan(&v.ID, &v.Name, &v.Category, &v.Price, &v.IsAvailable, &v.Status, &v.ImageURL)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create inserts a vehicle into its type's table.
func (r *VehicleRepository) Create(ctx context.Context, v *vehicle_models.Vehicle) (*vehicle_models.Vehicle, error) {
	table, err := vehicleTable(v.Type)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, category, price, is_available, status, image_url)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`, table)

	err = r.db.QueryRow(ctx, query, v.Name, v.Category, v.Price, v.IsAvailable, v.Status, v.ImageURL).Scan(&v.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", v.Type, err)
	}
	return v, nil
}

// GetByID fetches one vehicle from its type's table.
func (r *VehicleRepository) GetByID(ctx context.Context, vehicleType string, id int64) (*vehicle_models.Vehicle, error) {
	table, err := vehicleTable(vehicleType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, vehicleColumns, table)
	v, err := scanVehicle(r.db.QueryRow(ctx, query, id), vehicleType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch %s %d: %w", vehicleType, id, err)
	}
	return v, nil
}

// ListByType returns every vehicle of one type.
func (r *VehicleRepository) ListByType(ctx context.Context, vehicleType string) ([]vehicle_models.Vehicle, error) {
	table, err := vehicleTable(vehicleType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, vehicleColumns, table)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", vehicleType, err)
	}
	defer rows.Close()

	var vehicles []vehicle_models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows, vehicleType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", vehicleType, err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

// ListAll returns the whole catalog across all three collections.
func (r *VehicleRepository) ListAll(ctx context.Context) ([]vehicle_models.Vehicle, error) {
	var all []vehicle_models.Vehicle
	for _, t := range []string{vehicle_models.TypeBike, vehicle_models.TypeCar, vehicle_models.TypeScooty} {
		vehicles, err := r.ListByType(ctx, t)
		if err != nil {
			return nil, err
		}
		all = append(all, vehicles...)
	}
	return all, nil
}

// Update overwrites a vehicle record.
func (r *VehicleRepository) Update(ctx context.Context, v *vehicle_models.Vehicle) error {
	table, err := vehicleTable(v.Type)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET name = $2, category = $3, price = $4, is_available = $5, status = $6, image_url = $7
		WHERE id = $1`, table)

	tag, err := r.db.Exec(ctx, query, v.ID, v.Name, v.Category, v.Price, v.IsAvailable, v.Status, v.ImageURL)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", v.Type, v.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetAvailability flips the derived availability flag.
func (r *VehicleRepository) SetAvailability(ctx context.Context, vehicleType string, id int64, available bool) error {
	table, err := vehicleTable(vehicleType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET is_available = $2 WHERE id = $1`, table)
	tag, err := r.db.Exec(ctx, query, id, available)
	if err != nil {
		return fmt.Errorf("failed to set availability of %s %d: %w", vehicleType, id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a vehicle from its table.
func (r *VehicleRepository) Delete(ctx context.Context, vehicleType string, id int64) error {
	table, err := vehicleTable(vehicleType)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", vehicleType, id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
