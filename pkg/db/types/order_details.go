package dbtypes

import (
	"database/sql/driver"
	"time"
)

// PickupDetails describes a farm pickup slot chosen at checkout.
type PickupDetails struct {
	Date     *time.Time `json:"date,omitempty"`
	Time     string     `json:"time,omitempty"`
	Location string     `json:"location,omitempty"`
}

func (p PickupDetails) Value() (driver.Value, error) {
	return jsonValue(p)
}

func (p *PickupDetails) Scan(src any) error {
	return jsonScan(p, src)
}

// DeliveryAddress is the street address used for home delivery.
type DeliveryAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// DeliveryDetails describes a home delivery slot chosen at checkout.
type DeliveryDetails struct {
	Address DeliveryAddress `json:"address"`
	Date    *time.Time      `json:"date,omitempty"`
	Time    string          `json:"time,omitempty"`
}

func (d DeliveryDetails) Value() (driver.Value, error) {
	return jsonValue(d)
}

func (d *DeliveryDetails) Scan(src any) error {
	return jsonScan(d, src)
}
