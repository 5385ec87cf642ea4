package dashboard

import (
	"testing"

	"github.com/yigit/acroconnect/internal/app/models/dto"
)

func assignment(name string, level int) *dto.StudentSkillSetResponse {
	return &dto.StudentSkillSetResponse{Skill: &dto.SkillResponse{SkillName: name}, SkillLevel: level}
}

func TestSummarize(t *testing.T) {
	profiles := []*dto.StudentProfileResponse{
		{
			ID:       1,
			User:     &dto.UserResponse{ID: 10, Email: "a@example.com"},
			FullName: "Asha",
			SkillAssignments: []*dto.StudentSkillSetResponse{
				assignment("Python", 4),
				assignment("SQL", 3),
			},
		},
		{
			ID:               2,
			User:             &dto.UserResponse{ID: 11},
			FullName:         "Ravi",
			SkillAssignments: []*dto.StudentSkillSetResponse{assignment("Python", 2), {Skill: nil}},
		},
		{ID: 3, FullName: "Meera"},
	}

	a := Summarize(profiles)

	if a.TotalStudents != 3 {
		t.Fatalf("TotalStudents = %d, want 3", a.TotalStudents)
	}
	if a.TotalSkills != 3 {
		t.Fatalf("TotalSkills = %d, want 3", a.TotalSkills)
	}
	if a.AverageSkills != 1.0 {
		t.Fatalf("AverageSkills = %v, want 1", a.AverageSkills)
	}

	want := []SkillCount{{Skill: "Python", Count: 2, Percent: 100}, {Skill: "SQL", Count: 1, Percent: 50}}
	if len(a.SkillDistribution) != len(want) {
		t.Fatalf("SkillDistribution = %+v", a.SkillDistribution)
	}
	for i := range want {
		if a.SkillDistribution[i] != want[i] {
			t.Fatalf("SkillDistribution[%d] = %+v, want %+v", i, a.SkillDistribution[i], want[i])
		}
	}

	if a.Students[0].Skills != "Python, SQL" || a.Students[0].Email != "a@example.com" || a.Students[0].UserID != 10 {
		t.Fatalf("unexpected first row %+v", a.Students[0])
	}
	if a.Students[2].Skills != "None" || a.Students[2].SkillCount != 0 {
		t.Fatalf("unexpected empty row %+v", a.Students[2])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	a := Summarize(nil)
	if a.TotalStudents != 0 || a.AverageSkills != 0 || len(a.SkillDistribution) != 0 {
		t.Fatalf("expected zero analytics, got %+v", a)
	}
}
