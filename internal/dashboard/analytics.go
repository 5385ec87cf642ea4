package dashboard

import (
	"sort"
	"strings"

	"github.com/yigit/acroconnect/internal/app/models/dto"
)

// SkillCount is one bar of the skill distribution chart
type SkillCount struct {
	Skill string
	Count int
	// Percent is Count relative to the most common skill, for bar widths
	Percent int
}

// StudentRow is one line of the TPO student table
type StudentRow struct {
	ProfileID  int64
	UserID     int64
	FullName   string
	Email      string
	Phone      string
	CGPA       float64
	Skills     string
	SkillCount int
}

// Analytics summarizes every student profile visible to a TPO
type Analytics struct {
	TotalStudents     int
	TotalSkills       int
	AverageSkills     float64
	SkillDistribution []SkillCount
	Students          []StudentRow
}

// Summarize computes the TPO dashboard figures from the profile list.
// Assignments whose skill has no name are ignored.
func Summarize(profiles []*dto.StudentProfileResponse) Analytics {
	a := Analytics{TotalStudents: len(profiles)}
	counts := make(map[string]int)

	for _, p := range profiles {
		if p == nil {
			a.TotalStudents--
			continue
		}
		var names []string
		for _, s := range p.SkillAssignments {
			if s == nil || s.Skill == nil || s.Skill.SkillName == "" {
				continue
			}
			names = append(names, s.Skill.SkillName)
			counts[s.Skill.SkillName]++
		}
		a.TotalSkills += len(names)

		row := StudentRow{
			ProfileID:  p.ID,
			FullName:   p.FullName,
			Phone:      p.Phone,
			CGPA:       p.CGPA,
			Skills:     "None",
			SkillCount: len(names),
		}
		if p.User != nil {
			row.UserID = p.User.ID
			row.Email = p.User.Email
		}
		if len(names) > 0 {
			row.Skills = strings.Join(names, ", ")
		}
		a.Students = append(a.Students, row)
	}

	if a.TotalStudents > 0 {
		a.AverageSkills = float64(a.TotalSkills) / float64(a.TotalStudents)
	}

	for name, n := range counts {
		a.SkillDistribution = append(a.SkillDistribution, SkillCount{Skill: name, Count: n})
	}
	// most common first, ties by name
	sort.Slice(a.SkillDistribution, func(i, j int) bool {
		if a.SkillDistribution[i].Count != a.SkillDistribution[j].Count {
			return a.SkillDistribution[i].Count > a.SkillDistribution[j].Count
		}
		return a.SkillDistribution[i].Skill < a.SkillDistribution[j].Skill
	})
	if len(a.SkillDistribution) > 0 {
		top := a.SkillDistribution[0].Count
		for i := range a.SkillDistribution {
			a.SkillDistribution[i].Percent = a.SkillDistribution[i].Count * 100 / top
		}
	}

	return a
}
