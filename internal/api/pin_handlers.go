package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pindrop/internal/config"
	"pindrop/internal/geofence"
	"pindrop/internal/pin"
	"pindrop/internal/user"
)

// Helper to extract the resolved caller from the context
func getCallerFromContext(c *gin.Context) (id, username, role string, ok bool) {
	idVal, exists := c.Get("userId")
	if !exists {
		return "", "", "", false
	}
	id, ok = idVal.(string)
	if !ok {
		return "", "", "", false
	}
	return id, c.GetString("username"), c.GetString("userRole"), true
}

func callerMayMutate(p *pin.Pin, callerID, role string) bool {
	return p.UserID == callerID || role == string(user.RoleAdmin)
}

// parseExpiry accepts RFC3339 or a naive local-less timestamp, which is
// interpreted as UTC.
func parseExpiry(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
}

// POST /api/pins
func CreatePinHandler(cfg *config.Config, db *gorm.DB, bounds geofence.Bounds) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, callerName, _, ok := getCallerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req struct {
			Description     string           `json:"description"`
			LocationName    string           `json:"location_name"`
			Coordinates     *pin.Coordinates `json:"coordinates"`
			DurationMinutes int              `json:"duration_minutes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.Description == "" || req.Coordinates == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}
		if !bounds.Contains(req.Coordinates.Lat, req.Coordinates.Lng) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates outside the allowed area"})
			return
		}

		duration := req.DurationMinutes
		if duration <= 0 {
			duration = cfg.Pins.DefaultDurationMinutes
		}
		locationName := req.LocationName
		if locationName == "" {
			locationName = "N/A"
		}

		now := time.Now().UTC()
		p := pin.Pin{
			Description:     req.Description,
			LocationName:    locationName,
			Coordinates:     *req.Coordinates,
			CreatedAt:       now,
			ExpiresAt:       now.Add(time.Duration(duration) * time.Minute),
			DurationMinutes: duration,
			UserID:          callerID,
			Username:        callerName,
		}
		if err := db.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create pin"})
			return
		}

		c.JSON(http.StatusCreated, p)
	}
}

// GET /api/pins
//
// No expiry filter here: the sweeper owns removal, so whatever is in the
// table is what callers see.
func ListPinsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pins := []pin.Pin{}
		if err := db.Find(&pins).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pins"})
			return
		}
		c.JSON(http.StatusOK, pins)
	}
}

// PUT /api/pins/:id
func EditPinHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, role, ok := getCallerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var p pin.Pin
		if err := db.First(&p, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "pin not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pin"})
			}
			return
		}
		if !callerMayMutate(&p, callerID, role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your pin"})
			return
		}

		// Pointer fields give partial-update semantics: omitted or null
		// fields leave the stored value alone.
		var req struct {
			Description  *string `json:"description"`
			LocationName *string `json:"location_name"`
			ExpiresAt    *string `json:"expiresAt"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		if req.ExpiresAt != nil {
			expiresAt, err := parseExpiry(*req.ExpiresAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expiresAt format"})
				return
			}
			if !expiresAt.After(time.Now().UTC()) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "expiresAt must be in the future"})
				return
			}
			p.ExpiresAt = expiresAt
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.LocationName != nil {
			p.LocationName = *req.LocationName
		}

		if err := db.Save(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update pin"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// DELETE /api/pins/:id
func DeletePinHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, _, role, ok := getCallerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var p pin.Pin
		if err := db.First(&p, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "pin not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pin"})
			}
			return
		}
		if !callerMayMutate(&p, callerID, role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your pin"})
			return
		}

		if err := db.Delete(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete pin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pin deleted"})
	}
}
