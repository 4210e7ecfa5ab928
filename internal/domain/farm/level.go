package farm

// Level progression: reaching level n takes 100*n*(n-1) lifetime experience,
// so thresholds sit at 0, 200, 600, 1200, ...

func LevelForExperience(exp int) int {
	level := 1
	for exp >= ExperienceForLevel(level+1) {
		level++
	}
	return level
}

// ExperienceForLevel is the lifetime experience needed to reach a level.
func ExperienceForLevel(level int) int {
	return 100 * level * (level - 1)
}

// GainExperience credits exp and recomputes the level. Returns true when the
// player leveled up.
func GainExperience(p *Player, exp int) bool {
	if exp <= 0 {
		return false
	}
	p.Experience += exp
	next := LevelForExperience(p.Experience)
	leveled := next > p.Level
	p.Level = next
	return leveled
}
