package validation

// DateLayout is the date format accepted for manufacturing/expiry dates.
const DateLayout = "2006-01-02"

// RegisterProductRequest is the payload for POST /products.
type RegisterProductRequest struct {
	ProductKey        string   `json:"product_key" validate:"required,min=3"` // manufacturer-chosen identifier, e.g. SKU
	Name              string   `json:"name" validate:"required,min=3"`
	Category          string   `json:"category" validate:"required,oneof=PHARMACEUTICALS ELECTRONICS LUXURY_GOODS FOOD_BEVERAGE AUTOMOTIVE OTHER"`
	Description       string   `json:"description" validate:"required,min=10"`
	ManufacturingDate string   `json:"manufacturing_date" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD
	ExpiryDate        string   `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	OriginLocation    string   `json:"origin_location" validate:"required,min=3"`
	TempMin           *float64 `json:"temp_min,omitempty"` // optional transport range
	TempMax           *float64 `json:"temp_max,omitempty"` // when both set, min < max
}

// CheckpointEventRequest is the payload for POST /products/:id/checkpoints.
// Timestamp defaults to receive time when omitted.
type CheckpointEventRequest struct {
	Location    string   `json:"location" validate:"required,min=2"`
	Latitude    *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Status      string   `json:"status,omitempty" validate:"omitempty,oneof=CREATED IN_TRANSIT DELIVERED FLAGGED"`
	Temperature *float64 `json:"temperature,omitempty"`
	Timestamp   string   `json:"timestamp,omitempty"` // RFC3339; parsed by the handler
	Notes       string   `json:"notes,omitempty"`
	HandledBy   string   `json:"handled_by,omitempty"`
}
