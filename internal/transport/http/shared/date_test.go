package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-02")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 2 {
		t.Fatalf("ParseDate = %v", got)
	}

	got, err = ParseDate("2025-06-02T10:30:00Z")
	if err != nil {
		t.Fatalf("ParseDate RFC3339: %v", err)
	}
	if got.Hour() != 10 {
		t.Fatalf("ParseDate RFC3339 = %v", got)
	}

	if _, err := ParseDate("02/06/2025"); err == nil {
		t.Fatal("slash format accepted")
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("empty value: got %v, %v", got, err)
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=500&offset=20", nil)
	p := ParsePagination(req, 50, 100)
	if p.Limit != 100 || p.Offset != 20 {
		t.Fatalf("pagination = %+v, want limit capped at 100", p)
	}

	req = httptest.NewRequest("GET", "/?limit=bogus&offset=-3", nil)
	p = ParsePagination(req, 50, 100)
	if p.Limit != 50 || p.Offset != 0 {
		t.Fatalf("pagination = %+v, want defaults", p)
	}
}
