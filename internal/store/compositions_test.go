package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"garderoba/internal/db"
)

func TestComposeScenario(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateComponent(ctx, database, ComponentParams{Name: "Jacket", Cost: 2500})
	b, _ := CreateComponent(ctx, database, ComponentParams{Name: "Trousers", Cost: 1500})
	o, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Workday"})

	outfit, err := AddComponent(ctx, database, o.ID, a.ID)
	if err != nil {
		t.Fatalf("AddComponent A: %v", err)
	}
	if outfit.TotalCost != 2500 {
		t.Errorf("expected total 2500, got %d", outfit.TotalCost)
	}

	outfit, err = AddComponent(ctx, database, o.ID, b.ID)
	if err != nil {
		t.Fatalf("AddComponent B: %v", err)
	}
	if outfit.TotalCost != 4000 {
		t.Errorf("expected total 4000, got %d", outfit.TotalCost)
	}

	outfit, err = RemoveComponent(ctx, database, o.ID, a.ID)
	if err != nil {
		t.Fatalf("RemoveComponent A: %v", err)
	}
	if outfit.TotalCost != 1500 {
		t.Errorf("expected total 1500, got %d", outfit.TotalCost)
	}

	for i := 0; i < 3; i++ {
		if _, err := IncrementScore(ctx, database, o.ID); err != nil {
			t.Fatalf("IncrementScore: %v", err)
		}
	}
	score, err := DecrementScore(ctx, database, o.ID)
	if err != nil {
		t.Fatalf("DecrementScore: %v", err)
	}
	if score != 2 {
		t.Errorf("expected score 2, got %d", score)
	}
}

func TestAddComponentErrors(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateComponent(ctx, database, ComponentParams{Name: "Scarf", Cost: 300})
	o, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Winter"})

	if _, err := AddComponent(ctx, database, 999, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing outfit, got %v", err)
	}
	if _, err := AddComponent(ctx, database, o.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing component, got %v", err)
	}

	if _, err := AddComponent(ctx, database, o.ID, c.ID); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if _, err := AddComponent(ctx, database, o.ID, c.ID); !errors.Is(err, ErrAlreadyComposed) {
		t.Errorf("expected ErrAlreadyComposed, got %v", err)
	}

	// Deactivated entities cannot enter new compositions.
	DeactivateComponent(ctx, database, c.ID)
	o2, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Other"})
	if _, err := AddComponent(ctx, database, o2.ID, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deactivated component, got %v", err)
	}
}

func TestRemoveNotComposedIsNoop(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateComponent(ctx, database, ComponentParams{Name: "Hat", Cost: 900})
	o, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Sunday"})

	outfit, err := RemoveComponent(ctx, database, o.ID, c.ID)
	if err != nil {
		t.Fatalf("removing a non-composed component should succeed, got %v", err)
	}
	if outfit.TotalCost != 0 {
		t.Errorf("expected total 0, got %d", outfit.TotalCost)
	}

	if _, err := RemoveComponent(ctx, database, o.ID, 404); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing component id, got %v", err)
	}
}

func TestReAddReactivatesSameLink(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateComponent(ctx, database, ComponentParams{Name: "Boots", Cost: 7000})
	o, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Hiking"})

	AddComponent(ctx, database, o.ID, c.ID)
	firstLinkID := linkID(t, database, o.ID, c.ID)
	RemoveComponent(ctx, database, o.ID, c.ID)

	outfit, err := AddComponent(ctx, database, o.ID, c.ID)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if outfit.TotalCost != 7000 {
		t.Errorf("expected total 7000 after re-add, got %d", outfit.TotalCost)
	}

	if got := linkID(t, database, o.ID, c.ID); got != firstLinkID {
		t.Errorf("re-add should reactivate link %d, got new link %d", firstLinkID, got)
	}

	var count int
	if err := database.QueryRow(
		`SELECT COUNT(*) FROM compositions WHERE outfit_id = ? AND component_id = ?`,
		o.ID, c.ID,
	).Scan(&count); err != nil {
		t.Fatalf("counting links: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single link row, got %d", count)
	}
}

func TestDeactivatedComponentExcludedFromNextRecompute(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateComponent(ctx, database, ComponentParams{Name: "Shirt", Cost: 3000})
	b, _ := CreateComponent(ctx, database, ComponentParams{Name: "Tie", Cost: 1000})
	o, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Formal"})
	AddComponent(ctx, database, o.ID, a.ID)
	AddComponent(ctx, database, o.ID, b.ID)

	// Deactivation alone leaves the cached total untouched.
	DeactivateComponent(ctx, database, a.ID)
	outfit, _ := GetOutfit(ctx, database, o.ID)
	if outfit.TotalCost != 4000 {
		t.Errorf("deactivation must not retroactively change totals; expected 4000, got %d", outfit.TotalCost)
	}

	// The next membership change recomputes without the deactivated component.
	outfit, err := RemoveComponent(ctx, database, o.ID, b.ID)
	if err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if outfit.TotalCost != 0 {
		t.Errorf("expected 0 after recompute excludes deactivated component, got %d", outfit.TotalCost)
	}
}

func TestListOutfitComponentsAndComponentOutfits(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateComponent(ctx, database, ComponentParams{Name: "Blazer", Cost: 12000})
	b, _ := CreateComponent(ctx, database, ComponentParams{Name: "Loafers", Cost: 9000})
	o1, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Office"})
	o2, _ := CreateOutfit(ctx, database, OutfitParams{Name: "Dinner"})

	AddComponent(ctx, database, o1.ID, a.ID)
	AddComponent(ctx, database, o1.ID, b.ID)
	AddComponent(ctx, database, o2.ID, a.ID)

	components, err := ListOutfitComponents(ctx, database, o1.ID)
	if err != nil {
		t.Fatalf("ListOutfitComponents: %v", err)
	}
	if len(components) != 2 {
		t.Errorf("expected 2 components, got %d", len(components))
	}

	outfits, err := ListComponentOutfits(ctx, database, a.ID)
	if err != nil {
		t.Fatalf("ListComponentOutfits: %v", err)
	}
	if len(outfits) != 2 {
		t.Errorf("expected blazer in 2 outfits, got %d", len(outfits))
	}

	// Deactivating an outfit drops it from the component's view.
	DeactivateOutfit(ctx, database, o2.ID)
	outfits, _ = ListComponentOutfits(ctx, database, a.ID)
	if len(outfits) != 1 || outfits[0].Name != "Office" {
		t.Errorf("expected only Office after deactivation, got %v", outfits)
	}

	if _, err := ListOutfitComponents(ctx, database, 555); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func linkID(t *testing.T, database *sql.DB, outfitID, componentID int64) int64 {
	t.Helper()
	var id int64
	err := database.QueryRow(
		`SELECT id FROM compositions WHERE outfit_id = ? AND component_id = ? AND active = 1`,
		outfitID, componentID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("looking up link: %v", err)
	}
	return id
}
