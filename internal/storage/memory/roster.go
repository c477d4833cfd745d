package memory

import (
	"context"
	"sort"

	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

var _ roster.Store = (*Store)(nil)

func cloneVolunteer(v roster.Volunteer) roster.Volunteer {
	v.UpdatedAt = cloneTimePtr(v.UpdatedAt)
	v.Phone = cloneStringPtr(v.Phone)
	v.USState = cloneStringPtr(v.USState)
	v.Ethnicities = cloneSlice(v.Ethnicities)
	v.Universities = cloneSlice(v.Universities)
	v.Fli = cloneSlice(v.Fli)
	v.Majors = cloneSlice(v.Majors)
	v.Minors = cloneSlice(v.Minors)
	v.HearAbout = cloneSlice(v.HearAbout)
	return v
}

func cloneMentor(m roster.Mentor) roster.Mentor {
	m.UpdatedAt = cloneTimePtr(m.UpdatedAt)
	m.Phone = cloneStringPtr(m.Phone)
	m.USState = cloneStringPtr(m.USState)
	m.Universities = cloneSlice(m.Universities)
	m.HearAbout = cloneSlice(m.HearAbout)
	return m
}

func cloneClient(c roster.NonprofitClient) roster.NonprofitClient {
	c.UpdatedAt = cloneTimePtr(c.UpdatedAt)
	c.EmailCC = cloneStringPtr(c.EmailCC)
	c.OrgWebsite = cloneStringPtr(c.OrgWebsite)
	c.CountryHQ = cloneStringPtr(c.CountryHQ)
	c.USStateHQ = cloneStringPtr(c.USStateHQ)
	c.ImpactCauses = cloneSlice(c.ImpactCauses)
	return c
}

func (s *Store) CreateVolunteer(_ context.Context, v *roster.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createVolunteerLocked(v)
}

func (s *Store) CreateVolunteers(_ context.Context, vs []*roster.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validate the whole batch before touching the tables so a failure
	// leaves nothing behind.
	emails := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		if _, dup := emails[v.Email]; dup {
			return sentinel.ErrConflict
		}
		emails[v.Email] = struct{}{}
		for _, existing := range s.volunteers {
			if existing.Email == v.Email {
				return sentinel.ErrConflict
			}
		}
	}
	for _, v := range vs {
		if err := s.createVolunteerLocked(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createVolunteerLocked(v *roster.Volunteer) error {
	for _, existing := range s.volunteers {
		if existing.Email == v.Email {
			return sentinel.ErrConflict
		}
	}
	v.CreatedAt = s.now().UTC()
	v.UpdatedAt = nil
	s.volunteers[v.ID] = cloneVolunteer(*v)
	return nil
}

func (s *Store) FetchVolunteer(_ context.Context, id domain.VolunteerID) (*roster.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.volunteers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := cloneVolunteer(v)
	return &out, nil
}

func (s *Store) FetchVolunteerByEmail(_ context.Context, email string) (*roster.Volunteer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.volunteers {
		if v.Email == email {
			out := cloneVolunteer(v)
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) EditVolunteer(_ context.Context, id domain.VolunteerID, edit roster.EditVolunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.volunteers[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if edit.Email != v.Email {
		for otherID, other := range s.volunteers {
			if otherID != id && other.Email == edit.Email {
				return sentinel.ErrConflict
			}
		}
	}
	changed := false
	if edit.Email != v.Email {
		v.Email = edit.Email
		changed = true
	}
	if !ptrEq(edit.Phone, v.Phone) {
		v.Phone = cloneStringPtr(edit.Phone)
		changed = true
	}
	if changed {
		t := s.now().UTC()
		v.UpdatedAt = &t
	}
	s.volunteers[id] = v
	return nil
}

func (s *Store) DeleteVolunteer(_ context.Context, id domain.VolunteerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteers[id]; !ok {
		return sentinel.ErrNotFound
	}
	s.deleteVolunteerLocked(id)
	return nil
}

func (s *Store) deleteVolunteerLocked(id domain.VolunteerID) {
	for key := range s.volunteerRoles {
		if key.VolunteerID == id {
			delete(s.volunteerRoles, key)
		}
	}
	for key := range s.clientVolunteers {
		if key.VolunteerID == id {
			delete(s.clientVolunteers, key)
		}
	}
	for key := range s.volunteerMentors {
		if key.VolunteerID == id {
			delete(s.volunteerMentors, key)
		}
	}
	for rid, r := range s.receipts {
		if r.VolunteerID == id {
			delete(s.receipts, rid)
		}
	}
	delete(s.volunteers, id)
}

func (s *Store) CreateMentor(_ context.Context, m *roster.Mentor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createMentorLocked(m)
}

func (s *Store) CreateMentors(_ context.Context, ms []*roster.Mentor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emails := make(map[string]struct{}, len(ms))
	for _, m := range ms {
		if _, dup := emails[m.Email]; dup {
			return sentinel.ErrConflict
		}
		emails[m.Email] = struct{}{}
		for _, existing := range s.mentors {
			if existing.Email == m.Email {
				return sentinel.ErrConflict
			}
		}
	}
	for _, m := range ms {
		if err := s.createMentorLocked(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createMentorLocked(m *roster.Mentor) error {
	for _, existing := range s.mentors {
		if existing.Email == m.Email {
			return sentinel.ErrConflict
		}
	}
	m.CreatedAt = s.now().UTC()
	m.UpdatedAt = nil
	s.mentors[m.ID] = cloneMentor(*m)
	return nil
}

func (s *Store) FetchMentor(_ context.Context, id domain.MentorID) (*roster.Mentor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mentors[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := cloneMentor(m)
	return &out, nil
}

func (s *Store) FetchMentorByEmail(_ context.Context, email string) (*roster.Mentor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.mentors {
		if m.Email == email {
			out := cloneMentor(m)
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) EditMentor(_ context.Context, id domain.MentorID, edit roster.EditMentor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mentors[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if edit.Email != m.Email {
		for otherID, other := range s.mentors {
			if otherID != id && other.Email == edit.Email {
				return sentinel.ErrConflict
			}
		}
	}
	changed := false
	if edit.FirstName != m.FirstName {
		m.FirstName = edit.FirstName
		changed = true
	}
	if edit.LastName != m.LastName {
		m.LastName = edit.LastName
		changed = true
	}
	if edit.Email != m.Email {
		m.Email = edit.Email
		changed = true
	}
	if !ptrEq(edit.Phone, m.Phone) {
		m.Phone = cloneStringPtr(edit.Phone)
		changed = true
	}
	if changed {
		t := s.now().UTC()
		m.UpdatedAt = &t
	}
	s.mentors[id] = m
	return nil
}

func (s *Store) DeleteMentor(_ context.Context, id domain.MentorID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mentors[id]; !ok {
		return sentinel.ErrNotFound
	}
	s.deleteMentorLocked(id)
	return nil
}

func (s *Store) deleteMentorLocked(id domain.MentorID) {
	for key := range s.clientMentors {
		if key.MentorID == id {
			delete(s.clientMentors, key)
		}
	}
	for key := range s.volunteerMentors {
		if key.MentorID == id {
			delete(s.volunteerMentors, key)
		}
	}
	delete(s.mentors, id)
}

func (s *Store) CreateNonprofit(_ context.Context, n *roster.NonprofitClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createClientLocked(n)
}

func (s *Store) CreateNonprofits(_ context.Context, ns []*roster.NonprofitClient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range ns {
		for _, prior := range ns[:i] {
			if clientIdentityEq(*prior, *n) {
				return sentinel.ErrConflict
			}
		}
		for _, existing := range s.clients {
			if clientIdentityEq(existing, *n) {
				return sentinel.ErrConflict
			}
		}
	}
	for _, n := range ns {
		if err := s.createClientLocked(n); err != nil {
			return err
		}
	}
	return nil
}

// clientIdentityEq mirrors the composite unique key: the same
// representative may serve several cycles, or two projects in one cycle.
func clientIdentityEq(a, b roster.NonprofitClient) bool {
	return a.Email == b.Email &&
		a.ProjectCycleID == b.ProjectCycleID &&
		a.OrgName == b.OrgName &&
		a.ProjectName == b.ProjectName
}

func (s *Store) createClientLocked(n *roster.NonprofitClient) error {
	for _, existing := range s.clients {
		if clientIdentityEq(existing, *n) {
			return sentinel.ErrConflict
		}
	}
	n.CreatedAt = s.now().UTC()
	n.UpdatedAt = nil
	s.clients[n.ID] = cloneClient(*n)
	return nil
}

func (s *Store) FetchNonprofit(_ context.Context, id domain.ClientID) (*roster.NonprofitClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := cloneClient(c)
	return &out, nil
}

func (s *Store) FetchNonprofitByOrgName(_ context.Context, orgName string) (*roster.NonprofitClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.OrgName == orgName {
			out := cloneClient(c)
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) EditNonprofit(_ context.Context, id domain.ClientID, edit roster.EditNonprofit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	if edit.Email != c.Email {
		candidate := c
		candidate.Email = edit.Email
		for otherID, other := range s.clients {
			if otherID != id && clientIdentityEq(other, candidate) {
				return sentinel.ErrConflict
			}
		}
	}
	changed := false
	if edit.Email != c.Email {
		c.Email = edit.Email
		changed = true
	}
	if !ptrEq(edit.EmailCC, c.EmailCC) {
		c.EmailCC = cloneStringPtr(edit.EmailCC)
		changed = true
	}
	if edit.Phone != c.Phone {
		c.Phone = edit.Phone
		changed = true
	}
	if !ptrEq(edit.OrgWebsite, c.OrgWebsite) {
		c.OrgWebsite = cloneStringPtr(edit.OrgWebsite)
		changed = true
	}
	if changed {
		t := s.now().UTC()
		c.UpdatedAt = &t
	}
	s.clients[id] = c
	return nil
}

func (s *Store) DeleteNonprofit(_ context.Context, id domain.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return sentinel.ErrNotFound
	}
	s.deleteClientLocked(id)
	return nil
}

func (s *Store) deleteClientLocked(id domain.ClientID) {
	for key := range s.clientVolunteers {
		if key.ClientID == id {
			delete(s.clientVolunteers, key)
		}
	}
	for key := range s.clientMentors {
		if key.ClientID == id {
			delete(s.clientMentors, key)
		}
	}
	delete(s.clients, id)
}

func (s *Store) CreateTeamRole(_ context.Context, r *roster.TeamRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.teamRoles {
		if existing.Name == r.Name {
			return sentinel.ErrConflict
		}
	}
	r.CreatedAt = s.now().UTC()
	r.UpdatedAt = nil
	role := *r
	role.Description = cloneStringPtr(role.Description)
	s.teamRoles[r.ID] = role
	return nil
}

func (s *Store) FetchTeamRoles(_ context.Context) ([]roster.TeamRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]roster.TeamRole, 0, len(s.teamRoles))
	for _, r := range s.teamRoles {
		r.UpdatedAt = cloneTimePtr(r.UpdatedAt)
		r.Description = cloneStringPtr(r.Description)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) FetchTeamRoleByName(_ context.Context, name string) (*roster.TeamRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.teamRoles {
		if r.Name == name {
			r.UpdatedAt = cloneTimePtr(r.UpdatedAt)
			r.Description = cloneStringPtr(r.Description)
			return &r, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) LinkClientVolunteer(_ context.Context, key roster.ClientVolunteerKey, currentlyActive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cycleRowExists(key.CycleID) || !s.clientRowExists(key.ClientID) || !s.volunteerRowExists(key.VolunteerID) {
		return sentinel.ErrNotFound
	}
	if _, ok := s.clientVolunteers[key]; ok {
		return sentinel.ErrConflict
	}
	s.clientVolunteers[key] = currentlyActive
	return nil
}

func (s *Store) UnlinkClientVolunteer(_ context.Context, key roster.ClientVolunteerKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clientVolunteers[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.clientVolunteers, key)
	return nil
}

func (s *Store) LinkClientMentor(_ context.Context, key roster.ClientMentorKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cycleRowExists(key.CycleID) || !s.clientRowExists(key.ClientID) || !s.mentorRowExists(key.MentorID) {
		return sentinel.ErrNotFound
	}
	if _, ok := s.clientMentors[key]; ok {
		return sentinel.ErrConflict
	}
	s.clientMentors[key] = struct{}{}
	return nil
}

func (s *Store) UnlinkClientMentor(_ context.Context, key roster.ClientMentorKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clientMentors[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.clientMentors, key)
	return nil
}

func (s *Store) LinkVolunteerMentor(_ context.Context, key roster.VolunteerMentorKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cycleRowExists(key.CycleID) || !s.volunteerRowExists(key.VolunteerID) || !s.mentorRowExists(key.MentorID) {
		return sentinel.ErrNotFound
	}
	if _, ok := s.volunteerMentors[key]; ok {
		return sentinel.ErrConflict
	}
	s.volunteerMentors[key] = struct{}{}
	return nil
}

func (s *Store) UnlinkVolunteerMentor(_ context.Context, key roster.VolunteerMentorKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteerMentors[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.volunteerMentors, key)
	return nil
}

func (s *Store) LinkVolunteerTeamRole(_ context.Context, key roster.VolunteerTeamRoleKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cycleRowExists(key.CycleID) || !s.volunteerRowExists(key.VolunteerID) {
		return sentinel.ErrNotFound
	}
	if _, ok := s.teamRoles[key.RoleID]; !ok {
		return sentinel.ErrNotFound
	}
	if _, ok := s.volunteerRoles[key]; ok {
		return sentinel.ErrConflict
	}
	s.volunteerRoles[key] = struct{}{}
	return nil
}

func (s *Store) UnlinkVolunteerTeamRole(_ context.Context, key roster.VolunteerTeamRoleKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.volunteerRoles[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.volunteerRoles, key)
	return nil
}

func (s *Store) cycleRowExists(id domain.CycleID) bool {
	_, ok := s.cycles[id]
	return ok
}

func (s *Store) volunteerRowExists(id domain.VolunteerID) bool {
	_, ok := s.volunteers[id]
	return ok
}

func (s *Store) mentorRowExists(id domain.MentorID) bool {
	_, ok := s.mentors[id]
	return ok
}

func (s *Store) clientRowExists(id domain.ClientID) bool {
	_, ok := s.clients[id]
	return ok
}
