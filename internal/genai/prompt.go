package genai

import (
	"fmt"
	"strings"

	"github.com/claude/fithome/internal/models"
)

const systemPrompt = `You are a certified personal trainer who writes safe, structured workouts.
Reply with a single JSON object and nothing else. The object has exactly three keys:
"warmup", "rounds" and "cooldown". Each is an array of steps. A step is an object with
"name" (string), "description" (short string), and either "duration_sec" (integer) or
"reps" (integer). Use an empty array for a section that was not requested.`

func userPrompt(p models.Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-minute %s workout for a %s athlete.\n", p.Duration, p.Goal.Label(), p.SkillLevel)

	equipment := "none"
	if len(p.Equipment) > 0 {
		equipment = strings.Join(p.Equipment, ", ")
	}
	fmt.Fprintf(&b, "Available equipment: %s.\n", equipment)
	fmt.Fprintf(&b, "The main block repeats for %d rounds; list the exercises of one round.\n", p.Rounds)

	if p.IncludeWarmup {
		fmt.Fprintf(&b, "Include a %d-minute warm-up.\n", p.WarmupDuration)
	} else {
		b.WriteString("No warm-up.\n")
	}
	if p.IncludeCooldown {
		fmt.Fprintf(&b, "Include a %d-minute cool-down.\n", p.CooldownDuration)
	} else {
		b.WriteString("No cool-down.\n")
	}
	fmt.Fprintf(&b, "Rest %d seconds between exercises and %d seconds between rounds.", p.RestBetweenExercises, p.RestBetweenRounds)
	return b.String()
}
