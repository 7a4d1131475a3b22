package registry

import "time"

// Product categories accepted by the record store.
const (
	CategoryPharmaceuticals = "PHARMACEUTICALS"
	CategoryElectronics     = "ELECTRONICS"
	CategoryLuxuryGoods     = "LUXURY_GOODS"
	CategoryFoodBeverage    = "FOOD_BEVERAGE"
	CategoryAutomotive      = "AUTOMOTIVE"
	CategoryOther           = "OTHER"
)

// Product lifecycle statuses. A checkpoint carries the same status family
// because a custody event can transition the owning product.
const (
	StatusCreated   = "CREATED"
	StatusInTransit = "IN_TRANSIT"
	StatusDelivered = "DELIVERED"
	StatusFlagged   = "FLAGGED"
)

// Categories lists all valid product categories.
var Categories = []string{
	CategoryPharmaceuticals,
	CategoryElectronics,
	CategoryLuxuryGoods,
	CategoryFoodBeverage,
	CategoryAutomotive,
	CategoryOther,
}

// ValidCategory reports whether c is one of the fixed category values.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is one physical item batch under traceability, as stored by the
// remote record store. record_id is assigned by the store on creation and is
// immutable; product_key is the manufacturer-chosen identifier (e.g. SKU).
type Product struct {
	RecordID          string     `json:"record_id"`
	ProductKey        string     `json:"product_key"`
	Name              string     `json:"name"`
	Category          string     `json:"category"`
	Description       string     `json:"description"`
	ManufacturingDate time.Time  `json:"manufacturing_date"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	OriginLocation    string     `json:"origin_location"`
	TempMin           *float64   `json:"temp_min,omitempty"`
	TempMax           *float64   `json:"temp_max,omitempty"`
	Status            string     `json:"status"`
	AnchorReference   string     `json:"anchor_reference,omitempty"` // empty = not yet anchored
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewProduct carries the fields sent to the record store on creation.
// RecordID, Status and timestamps are assigned server-side.
type NewProduct struct {
	ProductKey        string     `json:"product_key"`
	Name              string     `json:"name"`
	Category          string     `json:"category"`
	Description       string     `json:"description"`
	ManufacturingDate time.Time  `json:"manufacturing_date"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	OriginLocation    string     `json:"origin_location"`
	TempMin           *float64   `json:"temp_min,omitempty"`
	TempMax           *float64   `json:"temp_max,omitempty"`
}

// Checkpoint is one custody/inspection event for a product.
type Checkpoint struct {
	CheckpointID    string    `json:"checkpoint_id"`
	ProductRecordID string    `json:"product_record_id"`
	Timestamp       time.Time `json:"timestamp"`
	Location        string    `json:"location"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Status          string    `json:"status"`
	Temperature     *float64  `json:"temperature,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	HandledBy       string    `json:"handled_by,omitempty"`
}

// NewCheckpoint carries the fields sent to the record store when recording a
// custody event. CheckpointID is assigned server-side.
type NewCheckpoint struct {
	ProductRecordID string    `json:"product_record_id"`
	Timestamp       time.Time `json:"timestamp"`
	Location        string    `json:"location"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	Status          string    `json:"status"`
	Temperature     *float64  `json:"temperature,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	HandledBy       string    `json:"handled_by,omitempty"`
}
