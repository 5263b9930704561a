package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type testScraperConfig struct {
	timeout  time.Duration
	maxChars int
}

func (c testScraperConfig) GetScrapeTimeout() time.Duration { return c.timeout }
func (c testScraperConfig) GetScrapeMaxChars() int          { return c.maxChars }

func newTestScraper() *Scraper {
	return NewScraper(testScraperConfig{timeout: 5 * time.Second, maxChars: 15000})
}

func TestFetchTextStripsMarkupAndScripts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><script>tracking()</script><style>.x{}</style></head>
			<body>
			<h2>APPETIZERS</h2>
			<div>Spring Rolls $6.99</div>
			<div>Crispy and served with sweet chili sauce</div>
			<div>Pad Thai $12.50</div>
			</body></html>`))
	}))
	defer srv.Close()

	text, err := newTestScraper().FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText returned error: %v", err)
	}
	if strings.Contains(text, "tracking()") || strings.Contains(text, ".x{}") {
		t.Errorf("script/style content leaked into text: %q", text)
	}
	if !strings.Contains(text, "APPETIZERS") || !strings.Contains(text, "Spring Rolls $6.99") {
		t.Errorf("expected visible text preserved, got %q", text)
	}

	menu, err := ExtractMenu(text)
	if err != nil {
		t.Fatalf("ExtractMenu on scraped text: %v", err)
	}
	if len(menu.Categories) == 0 || menu.Categories[0].Name != "Appetizers" {
		t.Errorf("expected Appetizers category from scraped page, got %+v", menu.Categories)
	}
}

func TestFetchTextStripsPageChrome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<header><h1>Golden Dragon</h1></header>
			<nav><a href="/">Home</a><a href="/about">About Us</a><a href="/contact">Contact</a></nav>
			<main>
			<h2>MAIN DISHES</h2>
			<div>Kung Pao Chicken $11.99</div>
			<div>Beef with Broccoli $12.99</div>
			</main>
			<footer>Copyright 2026 Golden Dragon. All rights reserved.</footer>
			</body></html>`))
	}))
	defer srv.Close()

	text, err := newTestScraper().FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText returned error: %v", err)
	}
	for _, chrome := range []string{"About Us", "Contact", "Copyright", "Golden Dragon"} {
		if strings.Contains(text, chrome) {
			t.Errorf("nav/header/footer text leaked: %q in %q", chrome, text)
		}
	}
	if !strings.Contains(text, "Kung Pao Chicken $11.99") {
		t.Errorf("expected menu body preserved, got %q", text)
	}
}

func TestFetchTextRejectsTinyPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>hi</body></html>`))
	}))
	defer srv.Close()

	if _, err := newTestScraper().FetchText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for page with almost no text")
	}
}

func TestFetchTextRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newTestScraper().FetchText(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestFetchTextCapsLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>" + strings.Repeat("menu text here ", 50) + "</p></body></html>"))
	}))
	defer srv.Close()

	scraper := NewScraper(testScraperConfig{timeout: 5 * time.Second, maxChars: 200})
	text, err := scraper.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText returned error: %v", err)
	}
	if len(text) > 200 {
		t.Errorf("expected text capped at 200 chars, got %d", len(text))
	}
}
