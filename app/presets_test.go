package app

import (
	"strings"
	"testing"

	"example/companion-api/app/models"
)

func TestBuildSystemPrompt(t *testing.T) {
	req := models.CreateCompanionRequest{
		Name:   "Luna",
		Gender: "female",
		Age:    24,
		Personality: models.Personality{
			Traits:      []string{"Adventurous", "Creative"},
			Description: "A free-spirited artist.",
		},
		Appearance: models.Appearance{
			HairColor:   "Raven Black",
			EyeColor:    "Emerald Green",
			Style:       "Bohemian Chic",
			Description: "Long flowing hair.",
		},
	}

	got := buildSystemPrompt(req)
	for _, want := range []string{
		"You are Luna, a 24-year-old woman.",
		"A free-spirited artist.",
		"Adventurous, Creative",
		"Hair: Raven Black, Eyes: Emerald Green",
		"Style: Bohemian Chic",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildSystemPromptMaleNoun(t *testing.T) {
	req := models.CreateCompanionRequest{Name: "Kai", Gender: "male", Age: 27}
	got := buildSystemPrompt(req)
	if !strings.Contains(got, "You are Kai, a 27-year-old man.") {
		t.Fatalf("male noun missing:\n%s", got)
	}
}

func TestCompanionPresetsShape(t *testing.T) {
	for _, gender := range []string{"female", "male"} {
		presets, ok := companionPresets[gender]
		if !ok || len(presets) != 3 {
			t.Fatalf("want 3 %s presets, got %d", gender, len(presets))
		}
		for _, p := range presets {
			if p.Name == "" || p.Age <= 0 {
				t.Fatalf("preset missing name or age: %+v", p)
			}
			if len(p.Personality.Traits) == 0 || p.Personality.Description == "" {
				t.Fatalf("preset %s missing personality", p.Name)
			}
			if p.Appearance.Description == "" {
				t.Fatalf("preset %s missing appearance", p.Name)
			}
		}
	}
}
