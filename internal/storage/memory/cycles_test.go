package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pantheon/internal/cycle"
	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

type CycleStoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
}

func TestCycleStoreSuite(t *testing.T) {
	suite.Run(t, new(CycleStoreSuite))
}

func (s *CycleStoreSuite) SetupTest() {
	s.store = New(WithClock(newTestClock().Now))
	s.ctx = context.Background()
}

func (s *CycleStoreSuite) TestCreateAndFetch() {
	c := seedCycle(s.ctx, s.store, "Spring 2026")

	found, err := s.store.FetchCycle(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Spring 2026", found.Name)
	s.False(found.CreatedAt.IsZero())
	s.Nil(found.UpdatedAt)

	_, err = s.store.FetchCycle(s.ctx, domain.CycleID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CycleStoreSuite) TestNameUniqueness() {
	seedCycle(s.ctx, s.store, "Spring 2026")

	dup := &cycle.ProjectCycle{ID: domain.CycleID(uuid.New()), Name: "Spring 2026"}
	err := s.store.CreateCycle(s.ctx, dup)
	s.Require().ErrorIs(err, sentinel.ErrConflict)
}

func (s *CycleStoreSuite) TestEditStampsOnlyOnChange() {
	c := seedCycle(s.ctx, s.store, "Spring 2026")

	s.Run("no-op edit leaves UpdatedAt nil", func() {
		name := "Spring 2026"
		s.Require().NoError(s.store.EditCycle(s.ctx, c.ID, cycle.EditCycle{Name: &name}))
		found, err := s.store.FetchCycle(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Nil(found.UpdatedAt)
	})

	s.Run("real change stamps UpdatedAt", func() {
		archived := true
		s.Require().NoError(s.store.EditCycle(s.ctx, c.ID, cycle.EditCycle{Archived: &archived}))
		found, err := s.store.FetchCycle(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found.UpdatedAt)
		s.True(found.Archived)
		s.True(found.UpdatedAt.After(found.CreatedAt))
	})

	s.Run("rename onto another cycle's name conflicts", func() {
		seedCycle(s.ctx, s.store, "Fall 2026")
		name := "Fall 2026"
		err := s.store.EditCycle(s.ctx, c.ID, cycle.EditCycle{Name: &name})
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *CycleStoreSuite) TestListSortedByName() {
	seedCycle(s.ctx, s.store, "Fall 2026")
	seedCycle(s.ctx, s.store, "Spring 2026")

	cycles, err := s.store.FetchCycles(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cycles, 2)
	s.Equal("Fall 2026", cycles[0].Name)
	s.Equal("Spring 2026", cycles[1].Name)
}

// TestDeleteCascades verifies a cycle delete removes every row the cycle
// owns, while jobs merely lose their cycle reference.
func (s *CycleStoreSuite) TestDeleteCascades() {
	c := seedCycle(s.ctx, s.store, "Spring 2026")
	keep := seedCycle(s.ctx, s.store, "Fall 2026")

	v := newVolunteer(c.ID, "ada@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, v))
	m := newMentor(c.ID, "grace@example.org")
	s.Require().NoError(s.store.CreateMentor(s.ctx, m))
	n := newClient(c.ID, "Ocean Trust", "Beach Cleanup", "jane@oceantrust.org")
	s.Require().NoError(s.store.CreateNonprofit(s.ctx, n))
	s.Require().NoError(s.store.LinkClientVolunteer(s.ctx, roster.ClientVolunteerKey{
		CycleID: c.ID, ClientID: n.ID, VolunteerID: v.ID,
	}, true))
	s.Require().NoError(s.store.LinkVolunteerMentor(s.ctx, roster.VolunteerMentorKey{
		CycleID: c.ID, VolunteerID: v.ID, MentorID: m.ID,
	}))

	j := newJob(&c.ID, "export Spring 2026 volunteers")
	s.Require().NoError(s.store.CreateJob(s.ctx, j))

	survivor := newVolunteer(keep.ID, "other@example.org")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, survivor))

	s.Require().NoError(s.store.DeleteCycle(s.ctx, c.ID))

	_, err := s.store.FetchVolunteer(s.ctx, v.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FetchMentor(s.ctx, m.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FetchNonprofit(s.ctx, n.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// The job survives without its cycle reference.
	got, err := s.store.FetchJob(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Nil(got.ProjectCycleID)

	// The other cycle's roster is untouched.
	_, err = s.store.FetchVolunteer(s.ctx, survivor.ID)
	s.NoError(err)
}

func (s *CycleStoreSuite) TestStats() {
	c := seedCycle(s.ctx, s.store, "Spring 2026")
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, newVolunteer(c.ID, "a@example.org")))
	s.Require().NoError(s.store.CreateVolunteer(s.ctx, newVolunteer(c.ID, "b@example.org")))
	s.Require().NoError(s.store.CreateMentor(s.ctx, newMentor(c.ID, "m@example.org")))

	stats, err := s.store.CycleStats(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(int64(2), stats.NumVolunteers)
	s.Equal(int64(1), stats.NumMentors)
	s.Equal(int64(0), stats.NumNonprofits)
}

func (s *CycleStoreSuite) TestCycleExists() {
	c := seedCycle(s.ctx, s.store, "Spring 2026")

	ok, err := s.store.CycleExists(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.store.CycleExists(s.ctx, domain.CycleID(uuid.New()))
	s.Require().NoError(err)
	s.False(ok)
}
