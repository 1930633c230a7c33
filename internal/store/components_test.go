package store

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"

	"garderoba/internal/db"
	"garderoba/internal/query"
)

func TestCreateComponentWeakReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateVendor(ctx, database, "Vendor", "")
	piece, _ := CreatePiece(ctx, database, "Shirt", "")

	c, err := CreateComponent(ctx, database, ComponentParams{
		Name:     "Linen shirt",
		Brand:    "Plainwear",
		Cost:     4500,
		VendorID: &vendor.ID,
		PieceID:  &piece.ID,
	})
	if err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}
	if c.VendorName != "Vendor" || c.PieceName != "Shirt" {
		t.Errorf("expected resolved reference names, got %q/%q", c.VendorName, c.PieceName)
	}

	// Referencing a deactivated vendor is legal (weak reference).
	DeactivateVendor(ctx, database, vendor.ID)
	if _, err := CreateComponent(ctx, database, ComponentParams{
		Name:     "Another shirt",
		Cost:     100,
		VendorID: &vendor.ID,
	}); err != nil {
		t.Errorf("deactivated vendor reference should be allowed, got %v", err)
	}

	// Referencing a nonexistent vendor is not.
	missing := int64(12345)
	var ve *ValidationError
	if _, err := CreateComponent(ctx, database, ComponentParams{
		Name:     "Ghost vendor shirt",
		VendorID: &missing,
	}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing vendor, got %v", err)
	} else if ve.Field != "vendor_id" {
		t.Errorf("expected vendor_id field, got %q", ve.Field)
	}
}

func TestCreateComponentValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var ve *ValidationError
	if _, err := CreateComponent(ctx, database, ComponentParams{Name: "  "}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for blank name, got %v", err)
	}
	if _, err := CreateComponent(ctx, database, ComponentParams{Name: "ok", Cost: -1}); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError for negative cost, got %v", err)
	} else if ve.Field != "cost" {
		t.Errorf("expected cost field, got %q", ve.Field)
	}
}

func TestDeactivatedReferenceStillReadable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateVendor(ctx, database, "Closing Down", "")
	c, _ := CreateComponent(ctx, database, ComponentParams{Name: "Coat", VendorID: &vendor.ID})
	DeactivateVendor(ctx, database, vendor.ID)

	got, err := GetComponent(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("GetComponent: %v", err)
	}
	if got.VendorID == nil || *got.VendorID != vendor.ID {
		t.Error("weak reference should survive vendor deactivation")
	}
}

func TestListComponentsFiltering(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	vendor, _ := CreateVendor(ctx, database, "Vendor", "")
	CreateComponent(ctx, database, ComponentParams{Name: "Cheap socks", Cost: 500})
	CreateComponent(ctx, database, ComponentParams{Name: "Wool coat", Brand: "Northline", Cost: 22000, VendorID: &vendor.ID})
	mid, _ := CreateComponent(ctx, database, ComponentParams{Name: "Jeans", Cost: 8000})
	DeactivateComponent(ctx, database, mid.ID)

	active, err := ListComponents(ctx, database, query.Normalize(url.Values{}))
	if err != nil {
		t.Fatalf("ListComponents: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active components, got %d", len(active))
	}

	expensive, _ := ListComponents(ctx, database, query.Normalize(url.Values{"cost_min": {"10000"}}))
	if len(expensive) != 1 || expensive[0].Name != "Wool coat" {
		t.Errorf("expected only the coat above 10000, got %v", expensive)
	}

	byVendor, _ := ListComponents(ctx, database, query.Normalize(url.Values{"vendor_id": {"1"}}))
	if len(byVendor) != 1 || byVendor[0].Name != "Wool coat" {
		t.Errorf("expected vendor filter to match the coat, got %v", byVendor)
	}

	byBrand, _ := ListComponents(ctx, database, query.Normalize(url.Values{"q": {"north"}}))
	if len(byBrand) != 1 {
		t.Errorf("expected brand search to match 1 component, got %d", len(byBrand))
	}

	byCost, _ := ListComponents(ctx, database, query.Normalize(url.Values{"sort": {"cost"}, "dir": {"desc"}}))
	if len(byCost) != 2 || byCost[0].Cost != 22000 {
		t.Errorf("expected cost-descending order, got %v", byCost)
	}
}

func TestComponentImageRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateComponent(ctx, database, ComponentParams{Name: "Pictured"})
	blob := []byte("canonical jpeg bytes")

	if err := SetComponentImage(ctx, database, c.ID, blob); err != nil {
		t.Fatalf("SetComponentImage: %v", err)
	}

	got, err := GetComponentImage(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("GetComponentImage: %v", err)
	}
	if !bytes.Equal(got, blob) {
		t.Errorf("expected stored blob back, got %q", got)
	}

	updated, _ := GetComponent(ctx, database, c.ID)
	if !updated.HasImage {
		t.Error("expected HasImage after upload")
	}

	// Nil clears.
	if err := SetComponentImage(ctx, database, c.ID, nil); err != nil {
		t.Fatalf("clearing image: %v", err)
	}
	cleared, _ := GetComponent(ctx, database, c.ID)
	if cleared.HasImage {
		t.Error("expected image cleared")
	}

	if _, err := GetComponentImage(ctx, database, 777); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateComponentCostDoesNotTouchOutfits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateComponent(ctx, database, ComponentParams{Name: "Belt", Cost: 1000})
	o, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Casual"})
	if _, err := AddComponent(ctx, database, o.ID, c.ID); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}

	newCost := int64(9000)
	if _, err := UpdateComponent(ctx, database, c.ID, ComponentUpdate{Cost: &newCost}); err != nil {
		t.Fatalf("UpdateComponent: %v", err)
	}

	outfit, _ := GetOutfit(ctx, database, o.ID)
	if outfit.TotalCost != 1000 {
		t.Errorf("cost edits must not push to outfits; expected 1000, got %d", outfit.TotalCost)
	}
}
