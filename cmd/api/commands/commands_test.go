package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestToolsShamsi(t *testing.T) {
	tests := []struct {
		date    string
		want    string
		wantErr bool
	}{
		{"1380/05/15", "2001-08-06", false},
		{"1403/01/01", "2024-03-20", false},
		{"1403/13/01", "", true},
		{"yesterday", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			var out bytes.Buffer
			cmd := NewToolsCommand()
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs([]string{"shamsi", tt.date})

			err := cmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && strings.TrimSpace(out.String()) != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestToolsPassword(t *testing.T) {
	var out bytes.Buffer
	cmd := NewToolsCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"password", "--name", "Sara"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), out.String())
	}
	pw := strings.TrimPrefix(lines[0], "Password: ")
	if len(pw) != 10 {
		t.Errorf("password %q has length %d, want 10", pw, len(pw))
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Storefront "+Version) {
		t.Errorf("output = %q", out.String())
	}
}

func TestAdminSubcommands(t *testing.T) {
	cmd := NewAdminCommand()

	for _, name := range []string{"create", "set-password", "enable", "disable"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, sub, err)
			continue
		}
		if sub.Flags().Lookup("username") == nil {
			t.Errorf("%s has no --username flag", name)
		}
	}

	sub, _, _ := cmd.Find([]string{"set-password"})
	if sub.Flags().Lookup("password") == nil {
		t.Error("set-password has no --password flag")
	}
}
