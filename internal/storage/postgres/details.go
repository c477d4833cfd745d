package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

// Detail views are assembled database-side: each fan-out relation is LEFT
// JOINed and folded into a JSON array with json_agg(DISTINCT ...), so one
// query returns the base row plus every collection. DISTINCT gives the
// at-most-once guarantee, the FILTER clause turns a relation-less entity
// into [] rather than [null], and the jsonb_build_object keys line up with
// the refs' JSON tags so the arrays unmarshal straight into them.

const volunteerDetailsQuery = `
	SELECT
		v.id, v.created_at, v.updated_at, v.project_cycle_id, v.first_name,
		v.last_name, v.email, v.phone, v.gender, v.ethnicities, v.age_range,
		v.universities, v.lgbt, v.country, v.us_state, v.fli, v.student_stage,
		v.majors, v.minors, v.hear_about,
		pc.name,
		(SELECT r.workspace_email
		   FROM volunteers_exported_to_workspace r
		  WHERE r.volunteer_id = v.id
		  ORDER BY r.created_at DESC
		  LIMIT 1),
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', c.id, 'orgName', c.org_name,
			'projectName', c.project_name, 'email', c.email
		)) FILTER (WHERE c.id IS NOT NULL), '[]'),
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', m.id, 'firstName', m.first_name, 'lastName', m.last_name,
			'email', m.email, 'company', m.company
		)) FILTER (WHERE m.id IS NOT NULL), '[]'),
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', tr.id, 'name', tr.name
		)) FILTER (WHERE tr.id IS NOT NULL), '[]')
	FROM volunteers v
	JOIN project_cycles pc ON pc.id = v.project_cycle_id
	LEFT JOIN clients_volunteers cv ON cv.volunteer_id = v.id
	LEFT JOIN nonprofit_clients c ON c.id = cv.client_id
	LEFT JOIN volunteers_mentors vm ON vm.volunteer_id = v.id
	LEFT JOIN mentors m ON m.id = vm.mentor_id
	LEFT JOIN volunteers_team_roles vtr ON vtr.volunteer_id = v.id
	LEFT JOIN team_roles tr ON tr.id = vtr.team_role_id
	%s
	GROUP BY v.id, pc.name
	ORDER BY v.email
`

func scanVolunteerDetails(row rowScanner) (*roster.VolunteerDetails, error) {
	var (
		d           roster.VolunteerDetails
		id, cycleID uuid.UUID
		gender, age string
		lgbt, stage string
		arrays      [6][]string
		clientsJSON []byte
		mentorsJSON []byte
		rolesJSON   []byte
	)
	err := row.Scan(
		&id, &d.CreatedAt, &d.UpdatedAt, &cycleID, &d.FirstName, &d.LastName,
		&d.Email, &d.Phone, &gender, pq.Array(&arrays[0]), &age,
		pq.Array(&arrays[1]), &lgbt, &d.Country, &d.USState,
		pq.Array(&arrays[2]), &stage, pq.Array(&arrays[3]), pq.Array(&arrays[4]),
		pq.Array(&arrays[5]),
		&d.ProjectCycleName, &d.WorkspaceEmail,
		&clientsJSON, &mentorsJSON, &rolesJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan volunteer details: %w", err)
	}
	d.ID = domain.VolunteerID(id)
	d.ProjectCycleID = domain.CycleID(cycleID)
	d.Gender = domain.Gender(gender)
	d.AgeRange = domain.AgeRange(age)
	d.Lgbt = domain.LgbtStatus(lgbt)
	d.StudentStage = domain.StudentStage(stage)
	d.Ethnicities = stringsToEnums[domain.Ethnicity](arrays[0])
	d.Universities = arrays[1]
	d.Fli = stringsToEnums[domain.FliStatus](arrays[2])
	d.Majors = arrays[3]
	d.Minors = arrays[4]
	d.HearAbout = stringsToEnums[domain.VolunteerHearAbout](arrays[5])
	if err := unmarshalRefs(clientsJSON, &d.Clients); err != nil {
		return nil, err
	}
	if err := unmarshalRefs(mentorsJSON, &d.Mentors); err != nil {
		return nil, err
	}
	if err := unmarshalRefs(rolesJSON, &d.Roles); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) VolunteerDetails(ctx context.Context, id domain.VolunteerID) (*roster.VolunteerDetails, error) {
	query := fmt.Sprintf(volunteerDetailsQuery, "WHERE v.id = $1")
	return scanVolunteerDetails(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) ListVolunteerDetails(ctx context.Context) ([]roster.VolunteerDetails, error) {
	query := fmt.Sprintf(volunteerDetailsQuery, "")
	return s.queryVolunteerDetails(ctx, query)
}

func (s *Store) ListVolunteerDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]roster.VolunteerDetails, error) {
	query := fmt.Sprintf(volunteerDetailsQuery, "WHERE v.project_cycle_id = $1")
	return s.queryVolunteerDetails(ctx, query, uuid.UUID(cycleID))
}

func (s *Store) queryVolunteerDetails(ctx context.Context, query string, args ...any) ([]roster.VolunteerDetails, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query volunteer details: %w", err)
	}
	defer rows.Close()

	out := make([]roster.VolunteerDetails, 0)
	for rows.Next() {
		d, err := scanVolunteerDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteer details: %w", err)
	}
	return out, nil
}

const mentorDetailsQuery = `
	SELECT
		m.id, m.created_at, m.updated_at, m.project_cycle_id, m.first_name,
		m.last_name, m.email, m.phone, m.company, m.job_title, m.country,
		m.us_state, m.years_experience, m.experience_level, m.prior_mentor,
		m.prior_mentee, m.prior_student, m.universities, m.hear_about,
		pc.name,
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', v.id, 'firstName', v.first_name, 'lastName', v.last_name,
			'email', v.email
		)) FILTER (WHERE v.id IS NOT NULL), '[]'),
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', c.id, 'orgName', c.org_name,
			'projectName', c.project_name, 'email', c.email
		)) FILTER (WHERE c.id IS NOT NULL), '[]')
	FROM mentors m
	JOIN project_cycles pc ON pc.id = m.project_cycle_id
	LEFT JOIN volunteers_mentors vm ON vm.mentor_id = m.id
	LEFT JOIN volunteers v ON v.id = vm.volunteer_id
	LEFT JOIN clients_mentors cm ON cm.mentor_id = m.id
	LEFT JOIN nonprofit_clients c ON c.id = cm.client_id
	%s
	GROUP BY m.id, pc.name
	ORDER BY m.email
`

func scanMentorDetails(row rowScanner) (*roster.MentorDetails, error) {
	var (
		d              roster.MentorDetails
		id, cycleID    uuid.UUID
		years, level   string
		universities   []string
		hearAbout      []string
		volunteersJSON []byte
		clientsJSON    []byte
	)
	err := row.Scan(
		&id, &d.CreatedAt, &d.UpdatedAt, &cycleID, &d.FirstName, &d.LastName,
		&d.Email, &d.Phone, &d.Company, &d.JobTitle, &d.Country, &d.USState,
		&years, &level, &d.PriorMentor, &d.PriorMentee, &d.PriorStudent,
		pq.Array(&universities), pq.Array(&hearAbout),
		&d.ProjectCycleName, &volunteersJSON, &clientsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan mentor details: %w", err)
	}
	d.ID = domain.MentorID(id)
	d.ProjectCycleID = domain.CycleID(cycleID)
	d.YearsExperience = domain.MentorYearsExperience(years)
	d.ExperienceLevel = domain.MentorExperienceLevel(level)
	d.Universities = universities
	d.HearAbout = stringsToEnums[domain.VolunteerHearAbout](hearAbout)
	if err := unmarshalRefs(volunteersJSON, &d.Volunteers); err != nil {
		return nil, err
	}
	if err := unmarshalRefs(clientsJSON, &d.Clients); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) MentorDetails(ctx context.Context, id domain.MentorID) (*roster.MentorDetails, error) {
	query := fmt.Sprintf(mentorDetailsQuery, "WHERE m.id = $1")
	return scanMentorDetails(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) ListMentorDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]roster.MentorDetails, error) {
	query := fmt.Sprintf(mentorDetailsQuery, "WHERE m.project_cycle_id = $1")
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(cycleID))
	if err != nil {
		return nil, fmt.Errorf("query mentor details: %w", err)
	}
	defer rows.Close()

	out := make([]roster.MentorDetails, 0)
	for rows.Next() {
		d, err := scanMentorDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentor details: %w", err)
	}
	return out, nil
}

const clientDetailsQuery = `
	SELECT
		c.id, c.created_at, c.updated_at, c.project_cycle_id,
		c.representative_first_name, c.representative_last_name,
		c.representative_job_title, c.email, c.email_cc, c.phone,
		c.org_name, c.project_name, c.org_website, c.country_hq,
		c.us_state_hq, c.address, c.size, c.impact_causes,
		pc.name,
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', v.id, 'firstName', v.first_name, 'lastName', v.last_name,
			'email', v.email
		)) FILTER (WHERE v.id IS NOT NULL), '[]'),
		coalesce(json_agg(DISTINCT jsonb_build_object(
			'id', m.id, 'firstName', m.first_name, 'lastName', m.last_name,
			'email', m.email, 'company', m.company
		)) FILTER (WHERE m.id IS NOT NULL), '[]')
	FROM nonprofit_clients c
	JOIN project_cycles pc ON pc.id = c.project_cycle_id
	LEFT JOIN clients_volunteers cv ON cv.client_id = c.id
	LEFT JOIN volunteers v ON v.id = cv.volunteer_id
	LEFT JOIN clients_mentors cm ON cm.client_id = c.id
	LEFT JOIN mentors m ON m.id = cm.mentor_id
	%s
	GROUP BY c.id, pc.name
	ORDER BY c.org_name, c.project_name
`

func scanClientDetails(row rowScanner) (*roster.NonprofitClientDetails, error) {
	var (
		d              roster.NonprofitClientDetails
		id, cycleID    uuid.UUID
		size           string
		causes         []string
		volunteersJSON []byte
		mentorsJSON    []byte
	)
	err := row.Scan(
		&id, &d.CreatedAt, &d.UpdatedAt, &cycleID, &d.RepFirstName,
		&d.RepLastName, &d.RepJobTitle, &d.Email, &d.EmailCC, &d.Phone,
		&d.OrgName, &d.ProjectName, &d.OrgWebsite, &d.CountryHQ,
		&d.USStateHQ, &d.Address, &size, pq.Array(&causes),
		&d.ProjectCycleName, &volunteersJSON, &mentorsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan nonprofit details: %w", err)
	}
	d.ID = domain.ClientID(id)
	d.ProjectCycleID = domain.CycleID(cycleID)
	d.Size = domain.ClientSize(size)
	d.ImpactCauses = stringsToEnums[domain.ImpactCause](causes)
	if err := unmarshalRefs(volunteersJSON, &d.Volunteers); err != nil {
		return nil, err
	}
	if err := unmarshalRefs(mentorsJSON, &d.Mentors); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) NonprofitDetails(ctx context.Context, id domain.ClientID) (*roster.NonprofitClientDetails, error) {
	query := fmt.Sprintf(clientDetailsQuery, "WHERE c.id = $1")
	return scanClientDetails(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) ListNonprofitDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]roster.NonprofitClientDetails, error) {
	query := fmt.Sprintf(clientDetailsQuery, "WHERE c.project_cycle_id = $1")
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(cycleID))
	if err != nil {
		return nil, fmt.Errorf("query nonprofit details: %w", err)
	}
	defer rows.Close()

	out := make([]roster.NonprofitClientDetails, 0)
	for rows.Next() {
		d, err := scanClientDetails(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nonprofit details: %w", err)
	}
	return out, nil
}

func unmarshalRefs(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode detail refs: %w", err)
	}
	return nil
}
