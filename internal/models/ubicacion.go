package models

import "time"

// UserLocation is the persisted geocoded location of an identity, keyed by the
// identity ID (one document per user or provider).
type UserLocation struct {
	UserID    string    `json:"userId" gorm:"primaryKey;type:varchar(36)" validate:"required,uuid"`
	Direccion string    `json:"direccion" validate:"required,min=3,max=255"`
	Lat       float64   `json:"lat" validate:"required,latitude"`
	Lon       float64   `json:"lon" validate:"required,longitude"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ubicacion returns the location as the embedded value used inside pedidos.
func (u UserLocation) Ubicacion() Ubicacion {
	return Ubicacion{Direccion: u.Direccion, Lat: u.Lat, Lon: u.Lon}
}
