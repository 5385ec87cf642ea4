package models

// Skill levels shared by student assignments and job requirements
const (
	MinSkillLevel = 1
	MaxSkillLevel = 5
)

// Skill is an entry of the skill catalog
type Skill struct {
	ID        int64  `json:"id" db:"id"`
	SkillName string `json:"skill_name" db:"skill_name"`
	Category  string `json:"category" db:"category"`
}

// ValidSkillLevel reports whether level is within the 1..5 scale.
func ValidSkillLevel(level int) bool {
	return level >= MinSkillLevel && level <= MaxSkillLevel
}
