package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pantheon/internal/cycle"
	"pantheon/internal/job"
	"pantheon/internal/roster"
	"pantheon/pkg/domain"
)

// Shared fixtures for the store suites.

// testClock hands out strictly increasing instants so UpdatedAt assertions
// never collide with CreatedAt.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func seedCycle(ctx context.Context, s *Store, name string) *cycle.ProjectCycle {
	c := &cycle.ProjectCycle{
		ID:   domain.CycleID(uuid.New()),
		Name: name,
	}
	if err := s.CreateCycle(ctx, c); err != nil {
		panic(err)
	}
	return c
}

func newVolunteer(cycleID domain.CycleID, email string) *roster.Volunteer {
	return &roster.Volunteer{
		ID:             domain.VolunteerID(uuid.New()),
		ProjectCycleID: cycleID,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          email,
		Gender:         domain.GenderWoman,
		AgeRange:       domain.AgeRange18To24,
		Lgbt:           domain.LgbtPreferNotToSay,
		Country:        "United States",
		StudentStage:   domain.StageJunior,
	}
}

func newMentor(cycleID domain.CycleID, email string) *roster.Mentor {
	return &roster.Mentor{
		ID:              domain.MentorID(uuid.New()),
		ProjectCycleID:  cycleID,
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           email,
		Company:         "Fleet Numerics",
		JobTitle:        "Staff Engineer",
		Country:         "United States",
		YearsExperience: domain.Years11To15,
		ExperienceLevel: domain.LevelSeniorOrExecutive,
	}
}

func newClient(cycleID domain.CycleID, orgName, projectName, email string) *roster.NonprofitClient {
	return &roster.NonprofitClient{
		ID:             domain.ClientID(uuid.New()),
		ProjectCycleID: cycleID,
		RepFirstName:   "Jane",
		RepLastName:    "Addams",
		Email:          email,
		OrgName:        orgName,
		ProjectName:    projectName,
		Size:           domain.ClientSize1To5,
	}
}

func newTeamRole(name string) *roster.TeamRole {
	return &roster.TeamRole{
		ID:   domain.TeamRoleID(uuid.New()),
		Name: name,
	}
}

func newJob(cycleID *domain.CycleID, label string) *job.Job {
	return &job.Job{
		ID:             domain.JobID(uuid.New()),
		ProjectCycleID: cycleID,
		Status:         domain.JobPending,
		Label:          label,
		Details:        job.Details{job.KeyJobType: "export_users"},
	}
}
