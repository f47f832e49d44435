package main

import (
	"strings"
	"testing"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

func TestServiceConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("SNAKEPLUS_HTTP_ADDR", ":7000")
	t.Setenv("SNAKEPLUS_BOT_TOKEN", "env-token")

	if err := serveCmd.Flags().Set("http", ":9000"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		flagHTTPAddr = ""
		serveCmd.Flags().Lookup("http").Changed = false
	})

	cfg, err := serviceConfig(serveCmd)
	if err != nil {
		t.Fatalf("serviceConfig() error = %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q, expected :9000", cfg.HTTPAddr)
	}
	if cfg.BotToken != "env-token" {
		t.Errorf("BotToken = %q, expected the environment value", cfg.BotToken)
	}
}

func TestPrintSkins(t *testing.T) {
	p := progression.DefaultProfile("u1", "ann")
	p.Stars = 60
	p.Skins = append(p.Skins, "#e67e22")

	var sb strings.Builder
	printSkins(&sb, p)
	out := sb.String()

	for _, want := range []string{"60★ available", "Classic     common     selected", "Orange      common     owned", "100★ (need more)"} {
		if !strings.Contains(out, want) {
			t.Errorf("printSkins() missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintProfile(t *testing.T) {
	p := progression.DefaultProfile("u1", "ann")
	p.Stats.BestScore = 120
	p.Achievements = []string{"first_blood", "score_100"}

	var sb strings.Builder
	printProfile(&sb, p)
	out := sb.String()

	for _, want := range []string{"Rank:        Bronze III", "Next rank:   Silver I at 200 (80 to go)", "Achievements (2/", "[x] First Blood"} {
		if !strings.Contains(out, want) {
			t.Errorf("printProfile() missing %q in:\n%s", want, out)
		}
	}
}

func TestCurrentIdentityIsStable(t *testing.T) {
	a, b := currentIdentity("ann"), currentIdentity("ann")
	if a.UserID != b.UserID || a.DisplayName != "ann" {
		t.Errorf("currentIdentity() = %+v and %+v", a, b)
	}
	t.Setenv("USER", "bob")
	if got := currentIdentity(""); got.DisplayName != "bob" {
		t.Errorf("currentIdentity(\"\") = %+v, expected $USER", got)
	}
}
