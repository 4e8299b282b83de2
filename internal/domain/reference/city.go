// Package reference provides read-only location catalog data.
package reference

import "context"

// City is a location reference used by routes and parties
type City struct {
	ID         int64  `gorm:"column:id;primaryKey" json:"id"`
	Name       string `gorm:"column:name" json:"name"`
	Department string `gorm:"column:department" json:"department,omitempty"`
	DaneCode   string `gorm:"column:dane_code" json:"dane_code,omitempty"`
}

// TableName returns the database table name
func (City) TableName() string {
	return "cities"
}

// CityRepository provides read-only access to the city catalog
type CityRepository interface {
	FindByID(ctx context.Context, id int64) (*City, error)
	ListAll(ctx context.Context) ([]City, error)
}
