package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"pantheon/internal/roster"
	"pantheon/pkg/domain"
	"pantheon/pkg/platform/sentinel"
)

var _ roster.Store = (*Store)(nil)

// Multi-valued enum fields are stored as text[]; the service layer has
// already validated every element against its closed value set, so the
// database only needs to hold them.

func enumsToStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func stringsToEnums[T ~string](in []string) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}
	return out
}

const volunteerColumns = `
	id, created_at, updated_at, project_cycle_id, first_name, last_name,
	email, phone, gender, ethnicities, age_range, universities, lgbt,
	country, us_state, fli, student_stage, majors, minors, hear_about`

func (s *Store) CreateVolunteer(ctx context.Context, v *roster.Volunteer) error {
	query := `
		INSERT INTO volunteers (
			id, project_cycle_id, first_name, last_name, email, phone,
			gender, ethnicities, age_range, universities, lgbt, country,
			us_state, fli, student_stage, majors, minors, hear_about,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::gender, $8, $9::age_range, $10,
		        $11::lgbt_status, $12, $13, $14, $15::student_stage, $16, $17, $18, now())
		RETURNING created_at
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(v.ID), uuid.UUID(v.ProjectCycleID), v.FirstName, v.LastName,
		v.Email, v.Phone, string(v.Gender), pq.Array(enumsToStrings(v.Ethnicities)),
		string(v.AgeRange), pq.Array(v.Universities), string(v.Lgbt), v.Country,
		v.USState, pq.Array(enumsToStrings(v.Fli)), string(v.StudentStage),
		pq.Array(v.Majors), pq.Array(v.Minors), pq.Array(enumsToStrings(v.HearAbout)),
	).Scan(&v.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

func (s *Store) CreateVolunteers(ctx context.Context, vs []*roster.Volunteer) error {
	for _, v := range vs {
		if err := s.CreateVolunteer(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVolunteer(row rowScanner) (*roster.Volunteer, error) {
	var (
		v              roster.Volunteer
		id, cycleID    uuid.UUID
		gender, age    string
		lgbt, stage    string
		ethnicities    []string
		universities   []string
		fli            []string
		majors, minors []string
		hearAbout      []string
	)
	err := row.Scan(
		&id, &v.CreatedAt, &v.UpdatedAt, &cycleID, &v.FirstName, &v.LastName,
		&v.Email, &v.Phone, &gender, pq.Array(&ethnicities), &age,
		pq.Array(&universities), &lgbt, &v.Country, &v.USState,
		pq.Array(&fli), &stage, pq.Array(&majors), pq.Array(&minors),
		pq.Array(&hearAbout),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if mapped := mapPgErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan volunteer: %w", err)
	}
	v.ID = domain.VolunteerID(id)
	v.ProjectCycleID = domain.CycleID(cycleID)
	v.Gender = domain.Gender(gender)
	v.AgeRange = domain.AgeRange(age)
	v.Lgbt = domain.LgbtStatus(lgbt)
	v.StudentStage = domain.StudentStage(stage)
	v.Ethnicities = stringsToEnums[domain.Ethnicity](ethnicities)
	v.Universities = universities
	v.Fli = stringsToEnums[domain.FliStatus](fli)
	v.Majors = majors
	v.Minors = minors
	v.HearAbout = stringsToEnums[domain.VolunteerHearAbout](hearAbout)
	return &v, nil
}

func (s *Store) FetchVolunteer(ctx context.Context, id domain.VolunteerID) (*roster.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1`
	return scanVolunteer(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) FetchVolunteerByEmail(ctx context.Context, email string) (*roster.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE email = $1`
	return scanVolunteer(s.execer(ctx).QueryRowContext(ctx, query, email))
}

func (s *Store) EditVolunteer(ctx context.Context, id domain.VolunteerID, edit roster.EditVolunteer) error {
	query := `
		UPDATE volunteers SET
			email = $2,
			phone = $3,
			updated_at = CASE
				WHEN (email, phone) IS DISTINCT FROM ($2, $3) THEN now()
				ELSE updated_at
			END
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(id), edit.Email, edit.Phone)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update volunteer: %w", err)
	}
	return requireRow(res, "update volunteer")
}

func (s *Store) DeleteVolunteer(ctx context.Context, id domain.VolunteerID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM volunteers WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("delete volunteer: %w", err)
	}
	return requireRow(res, "delete volunteer")
}

const mentorColumns = `
	id, created_at, updated_at, project_cycle_id, first_name, last_name,
	email, phone, company, job_title, country, us_state, years_experience,
	experience_level, prior_mentor, prior_mentee, prior_student,
	universities, hear_about`

func (s *Store) CreateMentor(ctx context.Context, m *roster.Mentor) error {
	query := `
		INSERT INTO mentors (
			id, project_cycle_id, first_name, last_name, email, phone,
			company, job_title, country, us_state, years_experience,
			experience_level, prior_mentor, prior_mentee, prior_student,
			universities, hear_about, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11::mentor_years_experience, $12::mentor_experience_level,
		        $13, $14, $15, $16, $17, now())
		RETURNING created_at
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(m.ID), uuid.UUID(m.ProjectCycleID), m.FirstName, m.LastName,
		m.Email, m.Phone, m.Company, m.JobTitle, m.Country, m.USState,
		string(m.YearsExperience), string(m.ExperienceLevel),
		m.PriorMentor, m.PriorMentee, m.PriorStudent,
		pq.Array(m.Universities), pq.Array(enumsToStrings(m.HearAbout)),
	).Scan(&m.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert mentor: %w", err)
	}
	return nil
}

func (s *Store) CreateMentors(ctx context.Context, ms []*roster.Mentor) error {
	for _, m := range ms {
		if err := s.CreateMentor(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func scanMentor(row rowScanner) (*roster.Mentor, error) {
	var (
		m            roster.Mentor
		id, cycleID  uuid.UUID
		years, level string
		universities []string
		hearAbout    []string
	)
	err := row.Scan(
		&id, &m.CreatedAt, &m.UpdatedAt, &cycleID, &m.FirstName, &m.LastName,
		&m.Email, &m.Phone, &m.Company, &m.JobTitle, &m.Country, &m.USState,
		&years, &level, &m.PriorMentor, &m.PriorMentee, &m.PriorStudent,
		pq.Array(&universities), pq.Array(&hearAbout),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if mapped := mapPgErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan mentor: %w", err)
	}
	m.ID = domain.MentorID(id)
	m.ProjectCycleID = domain.CycleID(cycleID)
	m.YearsExperience = domain.MentorYearsExperience(years)
	m.ExperienceLevel = domain.MentorExperienceLevel(level)
	m.Universities = universities
	m.HearAbout = stringsToEnums[domain.VolunteerHearAbout](hearAbout)
	return &m, nil
}

func (s *Store) FetchMentor(ctx context.Context, id domain.MentorID) (*roster.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors WHERE id = $1`
	return scanMentor(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) FetchMentorByEmail(ctx context.Context, email string) (*roster.Mentor, error) {
	query := `SELECT ` + mentorColumns + ` FROM mentors WHERE email = $1`
	return scanMentor(s.execer(ctx).QueryRowContext(ctx, query, email))
}

func (s *Store) EditMentor(ctx context.Context, id domain.MentorID, edit roster.EditMentor) error {
	query := `
		UPDATE mentors SET
			first_name = $2,
			last_name = $3,
			email = $4,
			phone = $5,
			updated_at = CASE
				WHEN (first_name, last_name, email, phone) IS DISTINCT FROM ($2, $3, $4, $5) THEN now()
				ELSE updated_at
			END
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(id), edit.FirstName, edit.LastName, edit.Email, edit.Phone)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update mentor: %w", err)
	}
	return requireRow(res, "update mentor")
}

func (s *Store) DeleteMentor(ctx context.Context, id domain.MentorID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM mentors WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("delete mentor: %w", err)
	}
	return requireRow(res, "delete mentor")
}

const clientColumns = `
	id, created_at, updated_at, project_cycle_id, representative_first_name,
	representative_last_name, representative_job_title, email, email_cc,
	phone, org_name, project_name, org_website, country_hq, us_state_hq,
	address, size, impact_causes`

func (s *Store) CreateNonprofit(ctx context.Context, n *roster.NonprofitClient) error {
	query := `
		INSERT INTO nonprofit_clients (
			id, project_cycle_id, representative_first_name,
			representative_last_name, representative_job_title, email,
			email_cc, phone, org_name, project_name, org_website,
			country_hq, us_state_hq, address, size, impact_causes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15::client_size, $16, now())
		RETURNING created_at
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(n.ID), uuid.UUID(n.ProjectCycleID), n.RepFirstName,
		n.RepLastName, n.RepJobTitle, n.Email, n.EmailCC, n.Phone,
		n.OrgName, n.ProjectName, n.OrgWebsite, n.CountryHQ, n.USStateHQ,
		n.Address, string(n.Size), pq.Array(enumsToStrings(n.ImpactCauses)),
	).Scan(&n.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert nonprofit: %w", err)
	}
	return nil
}

func (s *Store) CreateNonprofits(ctx context.Context, ns []*roster.NonprofitClient) error {
	for _, n := range ns {
		if err := s.CreateNonprofit(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func scanClient(row rowScanner) (*roster.NonprofitClient, error) {
	var (
		c           roster.NonprofitClient
		id, cycleID uuid.UUID
		size        string
		causes      []string
	)
	err := row.Scan(
		&id, &c.CreatedAt, &c.UpdatedAt, &cycleID, &c.RepFirstName,
		&c.RepLastName, &c.RepJobTitle, &c.Email, &c.EmailCC, &c.Phone,
		&c.OrgName, &c.ProjectName, &c.OrgWebsite, &c.CountryHQ,
		&c.USStateHQ, &c.Address, &size, pq.Array(&causes),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if mapped := mapPgErr(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan nonprofit: %w", err)
	}
	c.ID = domain.ClientID(id)
	c.ProjectCycleID = domain.CycleID(cycleID)
	c.Size = domain.ClientSize(size)
	c.ImpactCauses = stringsToEnums[domain.ImpactCause](causes)
	return &c, nil
}

func (s *Store) FetchNonprofit(ctx context.Context, id domain.ClientID) (*roster.NonprofitClient, error) {
	query := `SELECT ` + clientColumns + ` FROM nonprofit_clients WHERE id = $1`
	return scanClient(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(id)))
}

func (s *Store) FetchNonprofitByOrgName(ctx context.Context, orgName string) (*roster.NonprofitClient, error) {
	query := `SELECT ` + clientColumns + ` FROM nonprofit_clients WHERE org_name = $1 LIMIT 1`
	return scanClient(s.execer(ctx).QueryRowContext(ctx, query, orgName))
}

func (s *Store) EditNonprofit(ctx context.Context, id domain.ClientID, edit roster.EditNonprofit) error {
	query := `
		UPDATE nonprofit_clients SET
			email = $2,
			email_cc = $3,
			phone = $4,
			org_website = $5,
			updated_at = CASE
				WHEN (email, email_cc, phone, org_website) IS DISTINCT FROM ($2, $3, $4, $5) THEN now()
				ELSE updated_at
			END
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(id), edit.Email, edit.EmailCC, edit.Phone, edit.OrgWebsite)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update nonprofit: %w", err)
	}
	return requireRow(res, "update nonprofit")
}

func (s *Store) DeleteNonprofit(ctx context.Context, id domain.ClientID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM nonprofit_clients WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("delete nonprofit: %w", err)
	}
	return requireRow(res, "delete nonprofit")
}

func (s *Store) CreateTeamRole(ctx context.Context, r *roster.TeamRole) error {
	query := `
		INSERT INTO team_roles (id, name, description, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING created_at
	`
	err := s.execer(ctx).QueryRowContext(ctx, query,
		uuid.UUID(r.ID), r.Name, r.Description,
	).Scan(&r.CreatedAt)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert team role: %w", err)
	}
	return nil
}

func (s *Store) FetchTeamRoles(ctx context.Context) ([]roster.TeamRole, error) {
	query := `SELECT id, created_at, updated_at, name, description FROM team_roles ORDER BY name`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query team roles: %w", err)
	}
	defer rows.Close()

	var roles []roster.TeamRole
	for rows.Next() {
		var r roster.TeamRole
		var id uuid.UUID
		if err := rows.Scan(&id, &r.CreatedAt, &r.UpdatedAt, &r.Name, &r.Description); err != nil {
			return nil, fmt.Errorf("scan team role: %w", err)
		}
		r.ID = domain.TeamRoleID(id)
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team roles: %w", err)
	}
	return roles, nil
}

func (s *Store) FetchTeamRoleByName(ctx context.Context, name string) (*roster.TeamRole, error) {
	query := `SELECT id, created_at, updated_at, name, description FROM team_roles WHERE name = $1`
	var r roster.TeamRole
	var id uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx, query, name).
		Scan(&id, &r.CreatedAt, &r.UpdatedAt, &r.Name, &r.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan team role: %w", err)
	}
	r.ID = domain.TeamRoleID(id)
	return &r, nil
}

func (s *Store) LinkClientVolunteer(ctx context.Context, key roster.ClientVolunteerKey, currentlyActive bool) error {
	return s.link(ctx, `
		INSERT INTO clients_volunteers (project_cycle_id, client_id, volunteer_id, currently_active)
		VALUES ($1, $2, $3, $4)`,
		"link client volunteer",
		uuid.UUID(key.CycleID), uuid.UUID(key.ClientID), uuid.UUID(key.VolunteerID), currentlyActive)
}

func (s *Store) UnlinkClientVolunteer(ctx context.Context, key roster.ClientVolunteerKey) error {
	return s.unlink(ctx, `
		DELETE FROM clients_volunteers
		WHERE project_cycle_id = $1 AND client_id = $2 AND volunteer_id = $3`,
		"unlink client volunteer",
		uuid.UUID(key.CycleID), uuid.UUID(key.ClientID), uuid.UUID(key.VolunteerID))
}

func (s *Store) LinkClientMentor(ctx context.Context, key roster.ClientMentorKey) error {
	return s.link(ctx, `
		INSERT INTO clients_mentors (project_cycle_id, client_id, mentor_id)
		VALUES ($1, $2, $3)`,
		"link client mentor",
		uuid.UUID(key.CycleID), uuid.UUID(key.ClientID), uuid.UUID(key.MentorID))
}

func (s *Store) UnlinkClientMentor(ctx context.Context, key roster.ClientMentorKey) error {
	return s.unlink(ctx, `
		DELETE FROM clients_mentors
		WHERE project_cycle_id = $1 AND client_id = $2 AND mentor_id = $3`,
		"unlink client mentor",
		uuid.UUID(key.CycleID), uuid.UUID(key.ClientID), uuid.UUID(key.MentorID))
}

func (s *Store) LinkVolunteerMentor(ctx context.Context, key roster.VolunteerMentorKey) error {
	return s.link(ctx, `
		INSERT INTO volunteers_mentors (project_cycle_id, volunteer_id, mentor_id)
		VALUES ($1, $2, $3)`,
		"link volunteer mentor",
		uuid.UUID(key.CycleID), uuid.UUID(key.VolunteerID), uuid.UUID(key.MentorID))
}

func (s *Store) UnlinkVolunteerMentor(ctx context.Context, key roster.VolunteerMentorKey) error {
	return s.unlink(ctx, `
		DELETE FROM volunteers_mentors
		WHERE project_cycle_id = $1 AND volunteer_id = $2 AND mentor_id = $3`,
		"unlink volunteer mentor",
		uuid.UUID(key.CycleID), uuid.UUID(key.VolunteerID), uuid.UUID(key.MentorID))
}

func (s *Store) LinkVolunteerTeamRole(ctx context.Context, key roster.VolunteerTeamRoleKey) error {
	return s.link(ctx, `
		INSERT INTO volunteers_team_roles (project_cycle_id, volunteer_id, team_role_id)
		VALUES ($1, $2, $3)`,
		"link volunteer team role",
		uuid.UUID(key.CycleID), uuid.UUID(key.VolunteerID), uuid.UUID(key.RoleID))
}

func (s *Store) UnlinkVolunteerTeamRole(ctx context.Context, key roster.VolunteerTeamRoleKey) error {
	return s.unlink(ctx, `
		DELETE FROM volunteers_team_roles
		WHERE project_cycle_id = $1 AND volunteer_id = $2 AND team_role_id = $3`,
		"unlink volunteer team role",
		uuid.UUID(key.CycleID), uuid.UUID(key.VolunteerID), uuid.UUID(key.RoleID))
}

func (s *Store) link(ctx context.Context, query, op string, args ...any) error {
	_, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) unlink(ctx context.Context, query, op string, args ...any) error {
	res, err := s.execer(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapPgErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireRow(res, op)
}
