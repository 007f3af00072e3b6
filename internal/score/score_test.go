package score

import (
	"math"
	"testing"

	"github.com/claimsift/claimsift/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAutomated(t *testing.T) {
	tests := []struct {
		name     string
		sources  int
		disputed bool
		want     float64
	}{
		{"no sources", 0, false, 0.4},
		{"one source", 1, false, 0.65},
		{"two sources", 2, false, 0.9},
		{"three sources", 3, false, 1.0},
		{"saturates above three", 10, false, 1.0},
		{"disputed capped", 3, true, 0.7},
		{"disputed below cap unchanged", 1, true, 0.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Automated(tt.sources, tt.disputed)
			if !almostEqual(got, tt.want) {
				t.Errorf("Automated(%d, %v) = %v, want %v", tt.sources, tt.disputed, got, tt.want)
			}
		})
	}
}

func TestCommunity_NoVotes(t *testing.T) {
	if got := Community(nil); got != 0 {
		t.Errorf("Expected 0 with no votes, got %v", got)
	}
}

func TestCommunity_RoleWeights(t *testing.T) {
	// admin +1 (weight 2) against two plain users -1 (weight 1 each): net zero
	votes := []model.Vote{
		{Value: 1, Role: model.RoleAdmin},
		{Value: -1, Role: model.RoleUser},
		{Value: -1, Role: model.RoleUser},
	}
	if got := Community(votes); got != 0 {
		t.Errorf("Expected balanced votes to yield 0, got %v", got)
	}
}

func TestCommunity_Unanimous(t *testing.T) {
	votes := []model.Vote{
		{Value: 1, Role: model.RoleJournalist},
		{Value: 1, Role: model.RoleUser},
	}
	if got := Community(votes); !almostEqual(got, 1.0) {
		t.Errorf("Expected 1.0 for unanimous upvotes, got %v", got)
	}
}

func TestCommunity_ZeroValueIgnored(t *testing.T) {
	votes := []model.Vote{
		{Value: 0, Role: model.RoleAdmin},
	}
	if got := Community(votes); got != 0 {
		t.Errorf("Expected 0 when the only vote is neutral, got %v", got)
	}
}

func TestCommunity_Mixed(t *testing.T) {
	// journalist +1 (2) + user +1 (1) vs user -1 (1): (3-1)/4 = 0.5
	votes := []model.Vote{
		{Value: 1, Role: model.RoleJournalist},
		{Value: 1, Role: model.RoleUser},
		{Value: -1, Role: model.RoleUser},
	}
	if got := Community(votes); !almostEqual(got, 0.5) {
		t.Errorf("Expected 0.5, got %v", got)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name      string
		ai        float64
		community float64
		want      float64
	}{
		{"no votes keeps automated weight", 0.9, 0, 0.63},
		{"positive community lifts", 0.9, 1.0, 0.93},
		{"negative community clamped at zero", 0.1, -1.0, 0},
		{"full marks", 1.0, 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Blend(tt.ai, tt.community)
			if !almostEqual(got, tt.want) {
				t.Errorf("Blend(%v, %v) = %v, want %v", tt.ai, tt.community, got, tt.want)
			}
		})
	}
}
