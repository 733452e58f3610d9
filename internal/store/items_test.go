package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/model"
)

var testItems = []model.Item{
	{ID: "IT001", Name: "Laptop Dell XPS 13", Type: "Laptop"},
	{ID: "IT002", Name: "Canon EOS R", Type: "Camera"},
	{ID: "IT003", Name: "Projector Epson", Type: "Projector"},
	{ID: "IT004", Name: "MacBook Pro", Type: "Laptop"},
}

func TestLoadAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := LoadItems(ctx, database, testItems); err != nil {
		t.Fatalf("LoadItems: %v", err)
	}

	item, err := GetItem(ctx, database, "IT002")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item == nil || item.Name != "Canon EOS R" || item.Type != "Camera" {
		t.Errorf("unexpected item: %+v", item)
	}

	missing, err := GetItem(ctx, database, "IT999")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown item, got %+v", missing)
	}
}

func TestListItemsKeepsLoadOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	LoadItems(ctx, database, testItems)

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != len(testItems) {
		t.Fatalf("expected %d items, got %d", len(testItems), len(items))
	}
	for i := range items {
		if items[i].ID != testItems[i].ID {
			t.Errorf("item %d: expected %s, got %s", i, testItems[i].ID, items[i].ID)
		}
	}
}

func TestLoadItemsRejectsDuplicateID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	err := LoadItems(ctx, database, []model.Item{testItems[0], testItems[0]})
	if err == nil {
		t.Fatal("expected error for duplicate item id")
	}

	items, _ := ListItems(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected failed load to be rolled back, got %d items", len(items))
	}
}

func TestListItemTypes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	LoadItems(ctx, database, testItems)

	types, err := ListItemTypes(ctx, database)
	if err != nil {
		t.Fatalf("ListItemTypes: %v", err)
	}
	want := []string{"Camera", "Laptop", "Projector"}
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("expected %v, got %v", want, types)
			break
		}
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	LoadItems(ctx, database, testItems)

	if err := SetItemImage(ctx, database, "IT001", []byte("fake image data"), "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	data, mime, err := GetItemImage(ctx, database, "IT001")
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	item, _ := GetItem(ctx, database, "IT001")
	if !item.HasImage() {
		t.Error("expected item to report an image")
	}

	data, _, _ = GetItemImage(ctx, database, "IT002")
	if data != nil {
		t.Error("expected no image for IT002")
	}

	if err := SetItemImage(ctx, database, "IT999", []byte("x"), "image/jpeg"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
