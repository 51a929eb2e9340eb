package browser

import (
	"errors"
	"testing"
)

func stubStart(t *testing.T) *[]string {
	t.Helper()
	var calls []string
	orig := start
	start = func(name string, args ...string) error {
		calls = append(calls, name)
		return nil
	}
	t.Cleanup(func() { start = orig })
	return &calls
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	calls := stubStart(t)

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com/story?id=1", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
		{"#", true},
	}

	for _, tt := range tests {
		err := Open(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Open(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Open(%q): unexpected error %v", tt.url, err)
		}
	}
	if len(*calls) != 2 {
		t.Errorf("expected 2 launches, got %d", len(*calls))
	}
}

func TestOpenPlaceholderIsNoLink(t *testing.T) {
	stubStart(t)
	if err := Open("#"); !errors.Is(err, ErrNoLink) {
		t.Errorf("expected ErrNoLink, got %v", err)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
		{"windows", "rundll32"},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "https://example.com")
		if name != tt.want {
			t.Errorf("command(%q) = %q, want %q", tt.goos, name, tt.want)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("command(%q): URL must be the last argument, got %v", tt.goos, args)
		}
	}
}
