package pin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pin is an ephemeral location marker. Rows outlive their expiry only until
// the sweeper's next pass, so readers never filter on ExpiresAt themselves.
type Pin struct {
	ID              string      `json:"id" gorm:"primaryKey;size:36"`
	Description     string      `json:"description" gorm:"not null"`
	LocationName    string      `json:"location_name" gorm:"default:'N/A'"`
	Coordinates     Coordinates `json:"coordinates" gorm:"embedded;embeddedPrefix:coord_"`
	CreatedAt       time.Time   `json:"created_at"`
	ExpiresAt       time.Time   `json:"expires_at" gorm:"index"`
	DurationMinutes int         `json:"duration_minutes"`
	UserID          string      `json:"user_id" gorm:"size:36;index"`
	Username        string      `json:"username"`
}

func (p *Pin) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Active reports whether the pin is still visible at the given instant.
func (p *Pin) Active(now time.Time) bool {
	return now.Before(p.ExpiresAt)
}
