package validation

import (
	"testing"
)

func f64(v float64) *float64 { return &v }

func validRequest() RegisterProductRequest {
	return RegisterProductRequest{
		ProductKey:        "PFZ-CV19-001",
		Name:              "Vaccine X",
		Category:          "PHARMACEUTICALS",
		Description:       "ten-character description",
		ManufacturingDate: "2024-01-01",
		OriginLocation:    "New York",
	}
}

func TestRegisterProductRequest_Valid(t *testing.T) {
	v := New()

	if err := v.Struct(validRequest()); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestRegisterProductRequest_ShortFields(t *testing.T) {
	v := New()

	req := validRequest()
	req.ProductKey = "ab"
	req.Name = "x"
	req.Description = "too short"

	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation errors, got nil")
	}
	fields := ToFieldErrors(err)
	for _, want := range []string{"product_key", "name", "description"} {
		if _, ok := fields[want]; !ok {
			t.Fatalf("expected error for %s, got %v", want, fields)
		}
	}
}

func TestRegisterProductRequest_UnknownCategory(t *testing.T) {
	v := New()

	req := validRequest()
	req.Category = "GROCERIES"

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for unknown category, got nil")
	}
}

func TestRegisterProductRequest_ExpiryBeforeManufacture(t *testing.T) {
	v := New()

	req := validRequest()
	req.ExpiryDate = "2023-12-31"

	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation error for expiry before manufacture, got nil")
	}
	fields := ToFieldErrors(err)
	if fields["expiry_date"] != "expiry_after_manufacturing" {
		t.Fatalf("expected expiry_after_manufacturing, got %v", fields)
	}
}

func TestRegisterProductRequest_InvertedTempRange(t *testing.T) {
	v := New()

	req := validRequest()
	req.TempMin = f64(8)
	req.TempMax = f64(2)

	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation error for inverted temperature range, got nil")
	}
	fields := ToFieldErrors(err)
	if fields["temp_max"] != "temp_range" {
		t.Fatalf("expected temp_range, got %v", fields)
	}
}

func TestRegisterProductRequest_ValidTempRange(t *testing.T) {
	v := New()

	req := validRequest()
	req.TempMin = f64(2)
	req.TempMax = f64(8)
	req.ExpiryDate = "2026-01-01"

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCheckpointEventRequest_LatLonBounds(t *testing.T) {
	v := New()

	req := CheckpointEventRequest{
		Location: "Newark",
		Latitude: f64(123.0),
	}
	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for latitude out of range, got nil")
	}

	req.Latitude = f64(40.7)
	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}
