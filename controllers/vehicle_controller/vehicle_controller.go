package vehicle_controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/vehicle_models"
	"github.com/renthub/renthub/repository"
)

// VehicleController serves the catalog: public browsing plus the admin CRUD.
type VehicleController struct {
	store *repository.Store
}

// NewVehicleController creates and returns a new instance of VehicleController
func NewVehicleController(store *repository.Store) (*VehicleController, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	return &VehicleController{store: store}, nil
}

// ListByType returns the catalog of one vehicle type, e.g. /vehicles/bike.
func (vc *VehicleController) ListByType(c *gin.Context) {
	vehicleType := c.Param("type")
	if !vehicle_models.ValidType(vehicleType) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid vehicle type"})
		return
	}

	vehicles, err := vc.store.Vehicles.ListByType(c.Request.Context(), vehicleType)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list %s catalog: %v", vehicleType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": vehicles})
}

// ListAll returns the whole catalog across types.
func (vc *VehicleController) ListAll(c *gin.Context) {
	vehicles, err := vc.store.Vehicles.ListAll(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": vehicles})
}

// GetVehicle returns one vehicle by type and id.
func (vc *VehicleController) GetVehicle(c *gin.Context) {
	vehicleType, vehicleID, ok := vehicleParams(c)
	if !ok {
		return
	}

	vehicle, err := vc.store.Vehicles.GetByID(c.Request.Context(), vehicleType, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Vehicle not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch %s %d: %v", vehicleType, vehicleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vehicle": vehicle})
}

type vehicleRequest struct {
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"type" binding:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price" binding:"required"`
	Status   string  `json:"status"`
	ImageURL string  `json:"imageUrl"`
}

// CreateVehicle adds a vehicle to the catalog. Admin only.
func (vc *VehicleController) CreateVehicle(c *gin.Context) {
	logger.InfoLogger.Info("CreateVehicle controller hit...")

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	if !vehicle_models.ValidType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid vehicle type"})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
		return
	}

	vehicle := &vehicle_models.Vehicle{
		Name:        req.Name,
		Type:        req.Type,
		Category:    req.Category,
		Price:       req.Price,
		IsAvailable: true,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
	}

	created, err := vc.store.Vehicles.Create(c.Request.Context(), vehicle)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create vehicle: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create vehicle"})
		return
	}

	logger.InfoLogger.Infof("Vehicle %s %d added to catalog", created.Type, created.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Vehicle created", "vehicle": created})
}

// UpdateVehicle edits catalog fields of one vehicle. Admin only.
func (vc *VehicleController) UpdateVehicle(c *gin.Context) {
	logger.InfoLogger.Info("UpdateVehicle controller hit...")

	vehicleType, vehicleID, ok := vehicleParams(c)
	if !ok {
		return
	}

	existing, err := vc.store.Vehicles.GetByID(c.Request.Context(), vehicleType, vehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Vehicle not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch %s %d: %v", vehicleType, vehicleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch vehicle"})
		return
	}

	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Price must be positive"})
		return
	}

	existing.Name = req.Name
	existing.Category = req.Category
	existing.Price = req.Price
	existing.Status = req.Status
	existing.ImageURL = req.ImageURL

	if err := vc.store.Vehicles.Update(c.Request.Context(), existing); err != nil {
		logger.ErrorLogger.Errorf("Failed to update %s %d: %v", vehicleType, vehicleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vehicle updated", "vehicle": existing})
}

type availabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// SetAvailability flips the availability flag of a vehicle. Admin only.
func (vc *VehicleController) SetAvailability(c *gin.Context) {
	vehicleType, vehicleID, ok := vehicleParams(c)
	if !ok {
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "isAvailable is required"})
		return
	}

	if err := vc.store.Vehicles.SetAvailability(c.Request.Context(), vehicleType, vehicleID, *req.IsAvailable); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Vehicle not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to set availability of %s %d: %v", vehicleType, vehicleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Availability updated"})
}

// DeleteVehicle removes a vehicle from the catalog. A vehicle with pending or
// confirmed bookings cannot be deleted; those bookings must be resolved first.
func (vc *VehicleController) DeleteVehicle(c *gin.Context) {
	logger.InfoLogger.Info("DeleteVehicle controller hit...")

	vehicleType, vehicleID, ok := vehicleParams(c)
	if !ok {
		return
	}

	active, err := vc.store.Bookings.CountActiveForVehicle(c.Request.Context(), vehicleType, vehicleID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to count active bookings for %s %d: %v", vehicleType, vehicleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete vehicle"})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "Vehicle has active bookings and cannot be deleted. Resolve the bookings first.",
		})
		return
	}

	if err := vc.store.Vehicles.Delete(c.Request.Context(), vehicleType, vehicleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Vehicle not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to delete %s %d: %v", vehicleType, vehicleID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete vehicle"})
		return
	}

	logger.InfoLogger.Infof("Vehicle %s %d deleted", vehicleType, vehicleID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vehicle deleted"})
}

func vehicleParams(c *gin.Context) (string, int64, bool) {
	vehicleType := c.Param("type")
	if !vehicle_models.ValidType(vehicleType) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid vehicle type"})
		return "", 0, false
	}
	vehicleID, err := strconv.ParseInt(c.Param("vehicle_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid vehicle id"})
		return "", 0, false
	}
	return vehicleType, vehicleID, true
}
