package crosscheck

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/claimsift/claimsift/internal/model"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"lowercase", "Dam Collapse In Region X", "dam collapse in region x"},
		{"collapse whitespace", "dam   collapse\t in\n region x", "dam collapse in region x"},
		{"trim", "  dam collapse  ", "dam collapse"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.title); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle_Truncation(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := NormalizeTitle(long)
	if len(got) != 140 {
		t.Errorf("Expected key length 140, got %d", len(got))
	}

	// Two titles differing only past the cutoff group together
	other := strings.Repeat("a", 150)
	if NormalizeTitle(long) != NormalizeTitle(other) {
		t.Error("Expected titles differing past the cutoff to share a key")
	}
}

func TestNormalizeTitle_MultibyteTruncation(t *testing.T) {
	// 200 two-byte runes; a byte-index cut would split one in half
	long := strings.Repeat("é", 200)
	got := NormalizeTitle(long)

	if !utf8.ValidString(got) {
		t.Error("Expected truncated key to remain valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != 140 {
		t.Errorf("Expected 140 characters, got %d", n)
	}
}

func TestAnnotate_VerifiedByUniqueSources(t *testing.T) {
	// Three members of one group with two unique sources between them
	claims := []model.Claim{
		{Title: "Dam collapse in region X", Sources: []string{"https://a.example/1"}},
		{Title: "DAM COLLAPSE in region x", Sources: []string{"https://b.example/2"}},
		{Title: "dam collapse in region X", Sources: []string{"https://a.example/1"}},
		{Title: "Unrelated story", Sources: []string{"https://c.example/3"}},
	}

	out := Annotate(claims)

	for i := 0; i < 3; i++ {
		if out[i].Status != model.StatusVerified {
			t.Errorf("Expected member %d verified, got %s", i, out[i].Status)
		}
	}
	if out[3].Status != model.StatusPending {
		t.Errorf("Expected singleton pending, got %s", out[3].Status)
	}

	// Grouping labels, it never merges
	if len(out) != len(claims) {
		t.Fatalf("Expected %d claims out, got %d", len(claims), len(out))
	}
}

func TestAnnotate_SingletonStaysPending(t *testing.T) {
	out := Annotate([]model.Claim{
		{Title: "Lone report", Sources: []string{"https://a.example/1"}},
	})
	if out[0].Status != model.StatusPending {
		t.Errorf("Expected pending, got %s", out[0].Status)
	}
}

func TestAnnotate_DisputedOverridesCorroboration(t *testing.T) {
	claims := []model.Claim{
		{Title: "Contested story", Sources: []string{"https://a.example/1"}},
		{
			Title:   "Contested story",
			Sources: []string{"https://b.example/2"},
			DisputedClaims: []model.DisputedClaim{
				{ClaimText: "counter-assertion", Source: "https://c.example/3"},
			},
		},
		{Title: "contested STORY", Sources: []string{"https://a.example/1"}},
	}

	out := Annotate(claims)
	for i, claim := range out {
		if claim.Status != model.StatusDisputed {
			t.Errorf("Expected member %d disputed, got %s", i, claim.Status)
		}
	}
}

func TestAnnotate_Idempotent(t *testing.T) {
	claims := []model.Claim{
		{Title: "Dam collapse", Sources: []string{"https://a.example/1"}},
		{Title: "dam collapse", Sources: []string{"https://b.example/2"}},
		{Title: "Lone report", Sources: []string{"https://c.example/3"}},
	}

	once := Annotate(claims)
	twice := Annotate(once)

	for i := range once {
		if once[i].Status != twice[i].Status {
			t.Errorf("Member %d changed status on re-annotation: %s -> %s",
				i, once[i].Status, twice[i].Status)
		}
	}
}

func TestAnnotate_InputNotModified(t *testing.T) {
	claims := []model.Claim{
		{Title: "Dam collapse", Sources: []string{"https://a.example/1"}},
		{Title: "dam collapse", Sources: []string{"https://b.example/2"}},
	}

	_ = Annotate(claims)

	for i, claim := range claims {
		if claim.Status != "" {
			t.Errorf("Input claim %d was modified: status %s", i, claim.Status)
		}
	}
}

func TestGroupSources_Union(t *testing.T) {
	claims := []model.Claim{
		{Title: "Dam collapse", Sources: []string{"https://a.example/1", "https://b.example/2"}},
		{Title: "DAM collapse", Sources: []string{"https://b.example/2", "https://c.example/3"}},
		{Title: "Other", Sources: []string{"https://d.example/4"}},
	}

	got := GroupSources(claims, "dam collapse")
	want := []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d sources, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Source %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
