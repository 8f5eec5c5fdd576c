// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Seller is the persistent shop record. The password hash is never
// serialized; the geographic position is stored as two columns and presented
// as a GeoJSON point.
type Seller struct { //nolint:govet // fieldalignment: readability over optimization
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Description    string    `db:"description" json:"description"`
	Avatar         string    `db:"avatar" json:"avatar"`
	Address        string    `db:"address" json:"address"`
	PhoneNumber    string    `db:"phone_number" json:"phoneNumber"`
	ZipCode        string    `db:"zip_code" json:"zipCode"`
	Longitude      float64   `db:"longitude" json:"-"`
	Latitude       float64   `db:"latitude" json:"-"`
	Role           string    `db:"role" json:"role"`
	WithdrawMethod JSONMap   `db:"withdraw_method" json:"withdrawMethod,omitempty"`
	Balance        float64   `db:"available_balance" json:"availableBalance"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// GeoPoint is the GeoJSON representation used in API responses,
// coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Location returns the seller position as a GeoJSON point.
func (s *Seller) Location() GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: [2]float64{s.Longitude, s.Latitude},
	}
}

// MarshalJSON emits the stored row plus the derived location object.
func (s Seller) MarshalJSON() ([]byte, error) {
	type alias Seller
	return json.Marshal(struct {
		alias
		Location GeoPoint `json:"location"`
	}{
		alias:    alias(s),
		Location: s.Location(),
	})
}

// JSONMap stores a free-form JSON object in a TEXT column. Withdraw methods
// are seller-supplied payment details with no fixed schema.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type %T for JSONMap", src)
	}
}
