package memory

import (
	"context"
	"sort"

	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

// Detail assembly. Each view is the base row plus its fan-outs, every
// fan-out resolved through gatherRefs so the three shapes share one
// dedup-and-order rule. Collections come back empty, never nil, when the
// entity has no relations.

func (s *Store) clientRef(id domain.ClientID) (roster.ClientRef, bool) {
	c, ok := s.clients[id]
	if !ok {
		return roster.ClientRef{}, false
	}
	return roster.ClientRef{
		ID:          c.ID,
		OrgName:     c.OrgName,
		ProjectName: c.ProjectName,
		Email:       c.Email,
	}, true
}

func (s *Store) volunteerRef(id domain.VolunteerID) (roster.VolunteerRef, bool) {
	v, ok := s.volunteers[id]
	if !ok {
		return roster.VolunteerRef{}, false
	}
	return roster.VolunteerRef{
		ID:        v.ID,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Email:     v.Email,
	}, true
}

func (s *Store) mentorRef(id domain.MentorID) (roster.MentorRef, bool) {
	m, ok := s.mentors[id]
	if !ok {
		return roster.MentorRef{}, false
	}
	return roster.MentorRef{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Company:   m.Company,
	}, true
}

func (s *Store) roleRef(id domain.TeamRoleID) (roster.RoleRef, bool) {
	r, ok := s.teamRoles[id]
	if !ok {
		return roster.RoleRef{}, false
	}
	return roster.RoleRef{ID: r.ID, Name: r.Name}, true
}

func (s *Store) volunteerDetailsLocked(v roster.Volunteer) (roster.VolunteerDetails, error) {
	var clientIDs []domain.ClientID
	for key := range s.clientVolunteers {
		if key.VolunteerID == v.ID {
			clientIDs = append(clientIDs, key.ClientID)
		}
	}
	var mentorIDs []domain.MentorID
	for key := range s.volunteerMentors {
		if key.VolunteerID == v.ID {
			mentorIDs = append(mentorIDs, key.MentorID)
		}
	}
	var roleIDs []domain.TeamRoleID
	for key := range s.volunteerRoles {
		if key.VolunteerID == v.ID {
			roleIDs = append(roleIDs, key.RoleID)
		}
	}
	clients, err := gatherRefs("client", clientIDs, s.clientRef,
		func(r roster.ClientRef) string { return r.OrgName + "\x00" + r.ProjectName })
	if err != nil {
		return roster.VolunteerDetails{}, err
	}
	mentors, err := gatherRefs("mentor", mentorIDs, s.mentorRef,
		func(r roster.MentorRef) string { return r.Email })
	if err != nil {
		return roster.VolunteerDetails{}, err
	}
	roles, err := gatherRefs("team role", roleIDs, s.roleRef,
		func(r roster.RoleRef) string { return r.Name })
	if err != nil {
		return roster.VolunteerDetails{}, err
	}
	return roster.VolunteerDetails{
		Volunteer:        cloneVolunteer(v),
		ProjectCycleName: s.cycles[v.ProjectCycleID].Name,
		WorkspaceEmail:   s.latestWorkspaceEmailLocked(v.ID),
		Clients:          clients,
		Mentors:          mentors,
		Roles:            roles,
	}, nil
}

// latestWorkspaceEmailLocked surfaces the most recent export receipt's
// generated address, if the volunteer has ever been exported.
func (s *Store) latestWorkspaceEmailLocked(id domain.VolunteerID) *string {
	var best *string
	var bestAt int64
	for _, r := range s.receipts {
		if r.VolunteerID != id {
			continue
		}
		if best == nil || r.CreatedAt.UnixNano() > bestAt {
			email := r.WorkspaceEmail
			best = &email
			bestAt = r.CreatedAt.UnixNano()
		}
	}
	return best
}

func (s *Store) VolunteerDetails(_ context.Context, id domain.VolunteerID) (*roster.VolunteerDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.volunteers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	d, err := s.volunteerDetailsLocked(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListVolunteerDetails(_ context.Context) ([]roster.VolunteerDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]roster.VolunteerDetails, 0, len(s.volunteers))
	for _, v := range s.volunteers {
		d, err := s.volunteerDetailsLocked(v)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) ListVolunteerDetailsByCycle(_ context.Context, cycleID domain.CycleID) ([]roster.VolunteerDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]roster.VolunteerDetails, 0)
	for _, v := range s.volunteers {
		if v.ProjectCycleID == cycleID {
			d, err := s.volunteerDetailsLocked(v)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) mentorDetailsLocked(m roster.Mentor) (roster.MentorDetails, error) {
	var volunteerIDs []domain.VolunteerID
	for key := range s.volunteerMentors {
		if key.MentorID == m.ID {
			volunteerIDs = append(volunteerIDs, key.VolunteerID)
		}
	}
	var clientIDs []domain.ClientID
	for key := range s.clientMentors {
		if key.MentorID == m.ID {
			clientIDs = append(clientIDs, key.ClientID)
		}
	}
	volunteers, err := gatherRefs("volunteer", volunteerIDs, s.volunteerRef,
		func(r roster.VolunteerRef) string { return r.Email })
	if err != nil {
		return roster.MentorDetails{}, err
	}
	clients, err := gatherRefs("client", clientIDs, s.clientRef,
		func(r roster.ClientRef) string { return r.OrgName + "\x00" + r.ProjectName })
	if err != nil {
		return roster.MentorDetails{}, err
	}
	return roster.MentorDetails{
		Mentor:           cloneMentor(m),
		ProjectCycleName: s.cycles[m.ProjectCycleID].Name,
		Volunteers:       volunteers,
		Clients:          clients,
	}, nil
}

func (s *Store) MentorDetails(_ context.Context, id domain.MentorID) (*roster.MentorDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mentors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	d, err := s.mentorDetailsLocked(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListMentorDetailsByCycle(_ context.Context, cycleID domain.CycleID) ([]roster.MentorDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]roster.MentorDetails, 0)
	for _, m := range s.mentors {
		if m.ProjectCycleID == cycleID {
			d, err := s.mentorDetailsLocked(m)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) clientDetailsLocked(c roster.NonprofitClient) (roster.NonprofitClientDetails, error) {
	var volunteerIDs []domain.VolunteerID
	for key := range s.clientVolunteers {
		if key.ClientID == c.ID {
			volunteerIDs = append(volunteerIDs, key.VolunteerID)
		}
	}
	var mentorIDs []domain.MentorID
	for key := range s.clientMentors {
		if key.ClientID == c.ID {
			mentorIDs = append(mentorIDs, key.MentorID)
		}
	}
	volunteers, err := gatherRefs("volunteer", volunteerIDs, s.volunteerRef,
		func(r roster.VolunteerRef) string { return r.Email })
	if err != nil {
		return roster.NonprofitClientDetails{}, err
	}
	mentors, err := gatherRefs("mentor", mentorIDs, s.mentorRef,
		func(r roster.MentorRef) string { return r.Email })
	if err != nil {
		return roster.NonprofitClientDetails{}, err
	}
	return roster.NonprofitClientDetails{
		NonprofitClient:  cloneClient(c),
		ProjectCycleName: s.cycles[c.ProjectCycleID].Name,
		Volunteers:       volunteers,
		Mentors:          mentors,
	}, nil
}

func (s *Store) NonprofitDetails(_ context.Context, id domain.ClientID) (*roster.NonprofitClientDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	d, err := s.clientDetailsLocked(c)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListNonprofitDetailsByCycle(_ context.Context, cycleID domain.CycleID) ([]roster.NonprofitClientDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]roster.NonprofitClientDetails, 0)
	for _, c := range s.clients {
		if c.ProjectCycleID == cycleID {
			d, err := s.clientDetailsLocked(c)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrgName < out[j].OrgName })
	return out, nil
}
