package service

import (
	"strings"
	"testing"
)

func TestExtractMenuGroupsItemsUnderHeadings(t *testing.T) {
	text := strings.Join([]string{
		"APPETIZERS",
		"Spring Rolls $6.99",
		"Crispy and fresh",
		"MAIN",
		"Pad Thai $12.50",
	}, "\n")

	menu, err := ExtractMenu(text)
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	if len(menu.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(menu.Categories))
	}

	apps := menu.Categories[0]
	if apps.Name != "Appetizers" {
		t.Errorf("expected category Appetizers, got %q", apps.Name)
	}
	if len(apps.Items) != 1 {
		t.Fatalf("expected 1 appetizer, got %d", len(apps.Items))
	}
	if apps.Items[0].Name != "Spring Rolls" {
		t.Errorf("expected Spring Rolls, got %q", apps.Items[0].Name)
	}
	if apps.Items[0].Price != 6.99 {
		t.Errorf("expected price 6.99, got %v", apps.Items[0].Price)
	}
	if apps.Items[0].Description != "Crispy and fresh" {
		t.Errorf("expected description attached, got %q", apps.Items[0].Description)
	}

	main := menu.Categories[1]
	if main.Name != "Main" {
		t.Errorf("expected category Main, got %q", main.Name)
	}
	if len(main.Items) != 1 || main.Items[0].Name != "Pad Thai" || main.Items[0].Price != 12.50 {
		t.Errorf("unexpected main items: %+v", main.Items)
	}
}

func TestExtractMenuDefaultsCategoryBeforeFirstHeading(t *testing.T) {
	menu, err := ExtractMenu("Coffee $3\nTea $2.50")
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	if len(menu.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(menu.Categories))
	}
	if menu.Categories[0].Name != "Menu" {
		t.Errorf("expected fallback category Menu, got %q", menu.Categories[0].Name)
	}
	if len(menu.Categories[0].Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(menu.Categories[0].Items))
	}
}

func TestExtractMenuUsesLowBoundOfPriceRange(t *testing.T) {
	menu, err := ExtractMenu("Wine by the Glass $8 - $12\nHouse Beer $5")
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	items := menu.Categories[0].Items
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Price != 8 {
		t.Errorf("expected low bound 8 for price range, got %v", items[0].Price)
	}
}

func TestExtractMenuSkipsFinancialLines(t *testing.T) {
	text := strings.Join([]string{
		"Cheeseburger $9.99",
		"Subtotal $9.99",
		"Sales Tax $0.80",
		"Delivery Fee $3.99",
		"Service Charge $2.00",
	}, "\n")

	menu, err := ExtractMenu(text)
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	if len(menu.Categories) != 1 || len(menu.Categories[0].Items) != 1 {
		t.Fatalf("expected a single surviving item, got %+v", menu.Categories)
	}
	if menu.Categories[0].Items[0].Name != "Cheeseburger" {
		t.Errorf("expected Cheeseburger, got %q", menu.Categories[0].Items[0].Name)
	}
}

func TestExtractMenuDeduplicatesWithinCategory(t *testing.T) {
	text := strings.Join([]string{
		"PIZZA",
		"Margherita $11.00",
		"MARGHERITA $11.00",
		"Pepperoni $13.00",
	}, "\n")

	menu, err := ExtractMenu(text)
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	items := menu.Categories[0].Items
	if len(items) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 items, got %d", len(items))
	}
	if items[0].Name != "Margherita" || items[0].Price != 11.00 {
		t.Errorf("first occurrence should win: %+v", items[0])
	}
}

func TestExtractMenuRecognizesHeadingByPricedLookahead(t *testing.T) {
	text := strings.Join([]string{
		"Chef Favorites",
		"Braised Short Rib $18.00",
		"Seared Scallops $21.00",
	}, "\n")

	menu, err := ExtractMenu(text)
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	if menu.Categories[0].Name != "Chef Favorites" {
		t.Errorf("expected lookahead heading Chef Favorites, got %q", menu.Categories[0].Name)
	}
	if len(menu.Categories[0].Items) != 2 {
		t.Errorf("expected 2 items under heading, got %d", len(menu.Categories[0].Items))
	}
}

func TestExtractMenuTruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("tasty ", 25) // 150 chars
	menu, err := ExtractMenu("Ramen $14.00\n" + long)
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	desc := menu.Categories[0].Items[0].Description
	if len(desc) != 100 {
		t.Errorf("expected description truncated to 100 chars, got %d", len(desc))
	}
}

func TestExtractMenuErrsWhenNothingPriced(t *testing.T) {
	if _, err := ExtractMenu("Welcome to our restaurant\nOpen daily 9am to 9pm"); err == nil {
		t.Fatal("expected error for text with no priced items")
	}
}

func TestExtractMenuCollapsesWideWhitespace(t *testing.T) {
	// Scraped pages often separate columns with runs of spaces instead of
	// newlines.
	menu, err := ExtractMenu("DESSERTS   Tiramisu $7.50   Gelato $5.00")
	if err != nil {
		t.Fatalf("ExtractMenu returned error: %v", err)
	}
	if menu.Categories[0].Name != "Desserts" {
		t.Errorf("expected Desserts, got %q", menu.Categories[0].Name)
	}
	if len(menu.Categories[0].Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(menu.Categories[0].Items))
	}
}
