package memory

import (
	"context"
	"sort"

	"pantheon/internal/cycle"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

var _ cycle.Store = (*Store)(nil)

func (s *Store) CreateCycle(_ context.Context, c *cycle.ProjectCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cycles {
		if existing.Name == c.Name {
			return sentinel.ErrConflict
		}
	}
	c.CreatedAt = s.now().UTC()
	c.UpdatedAt = nil
	s.cycles[c.ID] = *c
	return nil
}

func (s *Store) FetchCycle(_ context.Context, id domain.CycleID) (*cycle.ProjectCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cycles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c.UpdatedAt = cloneTimePtr(c.UpdatedAt)
	return &c, nil
}

func (s *Store) FetchCycleByName(_ context.Context, name string) (*cycle.ProjectCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cycles {
		if c.Name == name {
			c.UpdatedAt = cloneTimePtr(c.UpdatedAt)
			return &c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) FetchCycles(_ context.Context) ([]cycle.ProjectCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]cycle.ProjectCycle, 0, len(s.cycles))
	for _, c := range s.cycles {
		c.UpdatedAt = cloneTimePtr(c.UpdatedAt)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) EditCycle(_ context.Context, id domain.CycleID, edit cycle.EditCycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cycles[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if edit.Name != nil && *edit.Name != c.Name {
		for otherID, other := range s.cycles {
			if otherID != id && other.Name == *edit.Name {
				return sentinel.ErrConflict
			}
		}
	}
	changed := false
	if edit.Name != nil && *edit.Name != c.Name {
		c.Name = *edit.Name
		changed = true
	}
	if edit.Description != nil && *edit.Description != c.Description {
		c.Description = *edit.Description
		changed = true
	}
	if edit.Archived != nil && *edit.Archived != c.Archived {
		c.Archived = *edit.Archived
		changed = true
	}
	if changed {
		t := s.now().UTC()
		c.UpdatedAt = &t
	}
	s.cycles[id] = c
	return nil
}

// DeleteCycle removes the cycle and everything scoped to it: volunteers,
// mentors, clients, their join rows, and the export receipts of its
// volunteers. Jobs that referenced the cycle survive with the reference
// cleared, matching the database's ON DELETE SET NULL.
func (s *Store) DeleteCycle(_ context.Context, id domain.CycleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cycles[id]; !ok {
		return sentinel.ErrNotFound
	}
	for vid, v := range s.volunteers {
		if v.ProjectCycleID == id {
			s.deleteVolunteerLocked(vid)
		}
	}
	for mid, m := range s.mentors {
		if m.ProjectCycleID == id {
			s.deleteMentorLocked(mid)
		}
	}
	for cid, c := range s.clients {
		if c.ProjectCycleID == id {
			s.deleteClientLocked(cid)
		}
	}
	for jid, j := range s.jobs {
		if j.ProjectCycleID != nil && *j.ProjectCycleID == id {
			j.ProjectCycleID = nil
			s.jobs[jid] = j
		}
	}
	delete(s.cycles, id)
	return nil
}

func (s *Store) CycleStats(_ context.Context, id domain.CycleID) (*cycle.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.cycles[id]; !ok {
		return nil, sentinel.ErrNotFound
	}
	var stats cycle.Stats
	for _, v := range s.volunteers {
		if v.ProjectCycleID == id {
			stats.NumVolunteers++
		}
	}
	for _, c := range s.clients {
		if c.ProjectCycleID == id {
			stats.NumNonprofits++
		}
	}
	for _, m := range s.mentors {
		if m.ProjectCycleID == id {
			stats.NumMentors++
		}
	}
	return &stats, nil
}

// CycleExists serves the services' foreign-reference checks.
func (s *Store) CycleExists(_ context.Context, id domain.CycleID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cycles[id]
	return ok, nil
}
