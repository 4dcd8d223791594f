package youtube

import (
	"context"
	"testing"
	"time"
)

func TestParseISO8601Duration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"PT3M20S", 3*time.Minute + 20*time.Second, false},
		{"PT1H2M3S", time.Hour + 2*time.Minute + 3*time.Second, false},
		{"PT45S", 45 * time.Second, false},
		{"PT2H", 2 * time.Hour, false},
		{"PT0S", 0, false},
		{"P1DT2H", 0, true},
		{"3m20s", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseISO8601Duration(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseISO8601Duration(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseISO8601Duration(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewMetadataClientRequiresKey(t *testing.T) {
	if _, err := NewMetadataClient(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
