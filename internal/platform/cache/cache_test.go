package cache

import (
	"context"
	"os"
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/2", false},
		{"empty", "", true},
		{"wrong-scheme", "http://localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", DefaultPrefix},
		{"   ", DefaultPrefix},
		{"team", "team:"},
		{"team:", "team:"},
		{" app:prefs ", "app:prefs:"},
	}
	for _, tt := range tests {
		if got := NormalizePrefix(tt.in); got != tt.want {
			t.Errorf("NormalizePrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKey(t *testing.T) {
	c := &Cache{prefix: NormalizePrefix("team")}
	if got := c.Key("token"); got != "team:token" {
		t.Errorf("Key() = %q, want %q", got, "team:token")
	}
	if got := c.Prefix(); got != "team:" {
		t.Errorf("Prefix() = %q, want %q", got, "team:")
	}
}

func TestNew_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := New(t.Context(), "redis://localhost:59999", "")
	if err == nil {
		t.Fatal("New() should return error for unreachable host")
	}
}

func TestCache_PrefixedRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}
	url := os.Getenv("TRACKER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TRACKER_TEST_REDIS_URL not set")
	}

	ctx := t.Context()
	a, err := New(ctx, url, "pai-tracker-test:"+t.Name()+":a")
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	b, err := New(ctx, url, "pai-tracker-test:"+t.Name()+":b")
	if err != nil {
		a.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() {
		a.Del(context.Background(), "theme")
		b.Del(context.Background(), "theme")
		a.Close()
		b.Close()
	})

	if err := a.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, err := b.Get(ctx, "theme"); err != nil || ok {
		t.Errorf("other prefix Get() = ok %v, err %v, want absent", ok, err)
	}
	v, ok, err := a.Get(ctx, "theme")
	if err != nil || !ok || v != "dark" {
		t.Errorf("Get() = %q, %v, %v, want dark, true, nil", v, ok, err)
	}
	if err := a.Del(ctx, "theme", "missing"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if _, ok, _ := a.Get(ctx, "theme"); ok {
		t.Error("Get() after Del() still present")
	}
}
