package roster

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pantheon/internal/platform/metrics"
	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
	"pantheon/pkg/platform/sentinel"
	"pantheon/pkg/platform/tx"
)

// CycleReader is the slice of the cycle store the roster service needs:
// every roster entity must be created against an existing cycle.
type CycleReader interface {
	CycleExists(ctx context.Context, id domain.CycleID) (bool, error)
}

// Service orchestrates roster mutations and detail reads.
type Service struct {
	store   Store
	cycles  CycleReader
	tx      tx.Runner
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, cycles CycleReader, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cycles: cycles,
		tx:     tx.NoopRunner{},
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) requireCycle(ctx context.Context, id domain.CycleID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "project cycle id is required")
	}
	ok, err := s.cycles.CycleExists(ctx, id)
	if err != nil {
		return translateStoreErr(err, "check cycle")
	}
	if !ok {
		return dErrors.Newf(dErrors.CodeConstraint, "project cycle %s does not exist", id)
	}
	return nil
}

// CreateVolunteer validates and persists a single volunteer.
func (s *Service) CreateVolunteer(ctx context.Context, cycleID domain.CycleID, p CreateVolunteerParams) (*Volunteer, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	v, err := p.toModel(cycleID)
	if err != nil {
		return nil, err
	}
	v.ID = domain.VolunteerID(uuid.New())
	if err := s.store.CreateVolunteer(ctx, v); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeDuplicateKey,
				"volunteer email %q is already in use (volunteers_email_key)", v.Email)
		}
		return nil, translateStoreErr(err, "create volunteer")
	}
	s.log.Info("created volunteer",
		zap.String("volunteer_id", v.ID.String()),
		zap.String("cycle_id", cycleID.String()))
	if s.metrics != nil {
		s.metrics.RecordCreated("volunteer")
	}
	return v, nil
}

// CreateVolunteers persists a batch atomically and returns email -> id for
// the created rows. One bad record fails the whole batch.
func (s *Service) CreateVolunteers(ctx context.Context, cycleID domain.CycleID, ps []CreateVolunteerParams) (map[string]domain.VolunteerID, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	vs := make([]*Volunteer, 0, len(ps))
	for _, p := range ps {
		v, err := p.toModel(cycleID)
		if err != nil {
			return nil, err
		}
		v.ID = domain.VolunteerID(uuid.New())
		vs = append(vs, v)
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.CreateVolunteers(txCtx, vs)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateKey, "create volunteers")
		}
		return nil, translateStoreErr(err, "create volunteers")
	}
	ids := make(map[string]domain.VolunteerID, len(vs))
	for _, v := range vs {
		ids[v.Email] = v.ID
	}
	if s.metrics != nil {
		for range vs {
			s.metrics.RecordCreated("volunteer")
		}
	}
	s.log.Info("created volunteer batch",
		zap.String("cycle_id", cycleID.String()), zap.Int("count", len(vs)))
	return ids, nil
}

func (s *Service) GetVolunteer(ctx context.Context, id domain.VolunteerID) (*Volunteer, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "volunteer id is required")
	}
	v, err := s.store.FetchVolunteer(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "volunteer %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch volunteer")
	}
	return v, nil
}

func (s *Service) GetVolunteerByEmail(ctx context.Context, email string) (*Volunteer, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	v, err := s.store.FetchVolunteerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "volunteer with email %q not found", email)
		}
		return nil, translateStoreErr(err, "fetch volunteer by email")
	}
	return v, nil
}

// EditVolunteer updates the mutable contact fields.
func (s *Service) EditVolunteer(ctx context.Context, id domain.VolunteerID, edit EditVolunteer) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "volunteer id is required")
	}
	edit.Email = normalizeEmail(edit.Email)
	if edit.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if err := s.store.EditVolunteer(ctx, id, edit); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Newf(dErrors.CodeNotFound, "volunteer %s not found", id)
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.Newf(dErrors.CodeDuplicateKey,
				"volunteer email %q is already in use (volunteers_email_key)", edit.Email)
		}
		return translateStoreErr(err, "edit volunteer")
	}
	return nil
}

// DeleteVolunteer removes a volunteer and every row that references it:
// relation rows and export receipts go in the same unit of work.
func (s *Service) DeleteVolunteer(ctx context.Context, id domain.VolunteerID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "volunteer id is required")
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.DeleteVolunteer(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "volunteer %s not found", id)
		}
		return translateStoreErr(err, "delete volunteer")
	}
	s.log.Info("deleted volunteer", zap.String("volunteer_id", id.String()))
	return nil
}

func (s *Service) VolunteerDetails(ctx context.Context, id domain.VolunteerID) (*VolunteerDetails, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "volunteer id is required")
	}
	defer s.observeDetailRead("volunteer", time.Now())
	d, err := s.store.VolunteerDetails(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "volunteer %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch volunteer details")
	}
	return d, nil
}

func (s *Service) ListVolunteerDetails(ctx context.Context) ([]VolunteerDetails, error) {
	defer s.observeDetailRead("volunteer", time.Now())
	ds, err := s.store.ListVolunteerDetails(ctx)
	if err != nil {
		return nil, translateStoreErr(err, "list volunteer details")
	}
	return ds, nil
}

func (s *Service) ListVolunteerDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]VolunteerDetails, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	defer s.observeDetailRead("volunteer", time.Now())
	ds, err := s.store.ListVolunteerDetailsByCycle(ctx, cycleID)
	if err != nil {
		return nil, translateStoreErr(err, "list volunteer details by cycle")
	}
	return ds, nil
}

// CreateMentor validates and persists a single mentor.
func (s *Service) CreateMentor(ctx context.Context, cycleID domain.CycleID, p CreateMentorParams) (*Mentor, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	m, err := p.toModel(cycleID)
	if err != nil {
		return nil, err
	}
	m.ID = domain.MentorID(uuid.New())
	if err := s.store.CreateMentor(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeDuplicateKey,
				"mentor email %q is already in use (mentors_email_key)", m.Email)
		}
		return nil, translateStoreErr(err, "create mentor")
	}
	s.log.Info("created mentor",
		zap.String("mentor_id", m.ID.String()),
		zap.String("cycle_id", cycleID.String()))
	if s.metrics != nil {
		s.metrics.RecordCreated("mentor")
	}
	return m, nil
}

// CreateMentors persists a batch atomically and returns email -> id.
func (s *Service) CreateMentors(ctx context.Context, cycleID domain.CycleID, ps []CreateMentorParams) (map[string]domain.MentorID, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	ms := make([]*Mentor, 0, len(ps))
	for _, p := range ps {
		m, err := p.toModel(cycleID)
		if err != nil {
			return nil, err
		}
		m.ID = domain.MentorID(uuid.New())
		ms = append(ms, m)
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.CreateMentors(txCtx, ms)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateKey, "create mentors")
		}
		return nil, translateStoreErr(err, "create mentors")
	}
	ids := make(map[string]domain.MentorID, len(ms))
	for _, m := range ms {
		ids[m.Email] = m.ID
	}
	if s.metrics != nil {
		for range ms {
			s.metrics.RecordCreated("mentor")
		}
	}
	s.log.Info("created mentor batch",
		zap.String("cycle_id", cycleID.String()), zap.Int("count", len(ms)))
	return ids, nil
}

func (s *Service) GetMentor(ctx context.Context, id domain.MentorID) (*Mentor, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mentor id is required")
	}
	m, err := s.store.FetchMentor(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "mentor %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch mentor")
	}
	return m, nil
}

func (s *Service) GetMentorByEmail(ctx context.Context, email string) (*Mentor, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	m, err := s.store.FetchMentorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "mentor with email %q not found", email)
		}
		return nil, translateStoreErr(err, "fetch mentor by email")
	}
	return m, nil
}

func (s *Service) EditMentor(ctx context.Context, id domain.MentorID, edit EditMentor) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "mentor id is required")
	}
	if edit.FirstName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "first name is required")
	}
	if edit.LastName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "last name is required")
	}
	edit.Email = normalizeEmail(edit.Email)
	if edit.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if err := s.store.EditMentor(ctx, id, edit); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Newf(dErrors.CodeNotFound, "mentor %s not found", id)
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.Newf(dErrors.CodeDuplicateKey,
				"mentor email %q is already in use (mentors_email_key)", edit.Email)
		}
		return translateStoreErr(err, "edit mentor")
	}
	return nil
}

func (s *Service) DeleteMentor(ctx context.Context, id domain.MentorID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "mentor id is required")
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.DeleteMentor(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "mentor %s not found", id)
		}
		return translateStoreErr(err, "delete mentor")
	}
	s.log.Info("deleted mentor", zap.String("mentor_id", id.String()))
	return nil
}

func (s *Service) MentorDetails(ctx context.Context, id domain.MentorID) (*MentorDetails, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "mentor id is required")
	}
	defer s.observeDetailRead("mentor", time.Now())
	d, err := s.store.MentorDetails(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "mentor %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch mentor details")
	}
	return d, nil
}

func (s *Service) ListMentorDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]MentorDetails, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	defer s.observeDetailRead("mentor", time.Now())
	ds, err := s.store.ListMentorDetailsByCycle(ctx, cycleID)
	if err != nil {
		return nil, translateStoreErr(err, "list mentor details by cycle")
	}
	return ds, nil
}

// CreateNonprofit validates and persists a single nonprofit client.
func (s *Service) CreateNonprofit(ctx context.Context, cycleID domain.CycleID, p CreateNonprofitParams) (*NonprofitClient, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	n, err := p.toModel(cycleID)
	if err != nil {
		return nil, err
	}
	n.ID = domain.ClientID(uuid.New())
	if err := s.store.CreateNonprofit(ctx, n); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeDuplicateKey,
				"nonprofit (%q, %q, %q) already exists in this cycle (nonprofit_clients_identity_key)",
				n.Email, n.OrgName, n.ProjectName)
		}
		return nil, translateStoreErr(err, "create nonprofit")
	}
	s.log.Info("created nonprofit client",
		zap.String("client_id", n.ID.String()),
		zap.String("cycle_id", cycleID.String()),
		zap.String("org_name", n.OrgName))
	if s.metrics != nil {
		s.metrics.RecordCreated("nonprofit")
	}
	return n, nil
}

// CreateNonprofits persists a batch atomically and returns org name -> id.
func (s *Service) CreateNonprofits(ctx context.Context, cycleID domain.CycleID, ps []CreateNonprofitParams) (map[string]domain.ClientID, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	ns := make([]*NonprofitClient, 0, len(ps))
	for _, p := range ps {
		n, err := p.toModel(cycleID)
		if err != nil {
			return nil, err
		}
		n.ID = domain.ClientID(uuid.New())
		ns = append(ns, n)
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.CreateNonprofits(txCtx, ns)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeDuplicateKey, "create nonprofits")
		}
		return nil, translateStoreErr(err, "create nonprofits")
	}
	ids := make(map[string]domain.ClientID, len(ns))
	for _, n := range ns {
		ids[n.OrgName] = n.ID
	}
	if s.metrics != nil {
		for range ns {
			s.metrics.RecordCreated("nonprofit")
		}
	}
	s.log.Info("created nonprofit batch",
		zap.String("cycle_id", cycleID.String()), zap.Int("count", len(ns)))
	return ids, nil
}

func (s *Service) GetNonprofit(ctx context.Context, id domain.ClientID) (*NonprofitClient, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	n, err := s.store.FetchNonprofit(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "nonprofit %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch nonprofit")
	}
	return n, nil
}

func (s *Service) GetNonprofitByOrgName(ctx context.Context, orgName string) (*NonprofitClient, error) {
	if orgName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "org name is required")
	}
	n, err := s.store.FetchNonprofitByOrgName(ctx, orgName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "nonprofit with org name %q not found", orgName)
		}
		return nil, translateStoreErr(err, "fetch nonprofit by org name")
	}
	return n, nil
}

// EditNonprofit updates the mutable contact fields. The identity fields
// (org name, project name, cycle) are not editable; a client with a new
// identity is a new row.
func (s *Service) EditNonprofit(ctx context.Context, id domain.ClientID, edit EditNonprofit) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	edit.Email = normalizeEmail(edit.Email)
	if edit.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if err := s.store.EditNonprofit(ctx, id, edit); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.Newf(dErrors.CodeNotFound, "nonprofit %s not found", id)
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.Newf(dErrors.CodeDuplicateKey,
				"nonprofit with email %q already exists under this identity (nonprofit_clients_identity_key)", edit.Email)
		}
		return translateStoreErr(err, "edit nonprofit")
	}
	return nil
}

func (s *Service) DeleteNonprofit(ctx context.Context, id domain.ClientID) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.store.DeleteNonprofit(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "nonprofit %s not found", id)
		}
		return translateStoreErr(err, "delete nonprofit")
	}
	s.log.Info("deleted nonprofit client", zap.String("client_id", id.String()))
	return nil
}

func (s *Service) NonprofitDetails(ctx context.Context, id domain.ClientID) (*NonprofitClientDetails, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	defer s.observeDetailRead("nonprofit", time.Now())
	d, err := s.store.NonprofitDetails(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "nonprofit %s not found", id)
		}
		return nil, translateStoreErr(err, "fetch nonprofit details")
	}
	return d, nil
}

func (s *Service) ListNonprofitDetailsByCycle(ctx context.Context, cycleID domain.CycleID) ([]NonprofitClientDetails, error) {
	if err := s.requireCycle(ctx, cycleID); err != nil {
		return nil, err
	}
	defer s.observeDetailRead("nonprofit", time.Now())
	ds, err := s.store.ListNonprofitDetailsByCycle(ctx, cycleID)
	if err != nil {
		return nil, translateStoreErr(err, "list nonprofit details by cycle")
	}
	return ds, nil
}

// CreateTeamRole adds an entry to the role catalog.
func (s *Service) CreateTeamRole(ctx context.Context, name string, description *string) (*TeamRole, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "role name is required")
	}
	r := &TeamRole{
		ID:          domain.TeamRoleID(uuid.New()),
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateTeamRole(ctx, r); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeDuplicateKey,
				"team role %q already exists (team_roles_name_key)", name)
		}
		return nil, translateStoreErr(err, "create team role")
	}
	if s.metrics != nil {
		s.metrics.RecordCreated("team_role")
	}
	return r, nil
}

func (s *Service) ListTeamRoles(ctx context.Context) ([]TeamRole, error) {
	rs, err := s.store.FetchTeamRoles(ctx)
	if err != nil {
		return nil, translateStoreErr(err, "list team roles")
	}
	return rs, nil
}

func (s *Service) GetTeamRoleByName(ctx context.Context, name string) (*TeamRole, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "role name is required")
	}
	r, err := s.store.FetchTeamRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "team role %q not found", name)
		}
		return nil, translateStoreErr(err, "fetch team role by name")
	}
	return r, nil
}

// LinkClientVolunteer assigns a volunteer to a client's project team.
func (s *Service) LinkClientVolunteer(ctx context.Context, key ClientVolunteerKey, currentlyActive bool) error {
	if err := s.requireCycle(ctx, key.CycleID); err != nil {
		return err
	}
	return s.translateLinkErr(
		s.store.LinkClientVolunteer(ctx, key, currentlyActive),
		"client-volunteer")
}

func (s *Service) UnlinkClientVolunteer(ctx context.Context, key ClientVolunteerKey) error {
	return s.translateUnlinkErr(s.store.UnlinkClientVolunteer(ctx, key), "client-volunteer")
}

// LinkClientMentor assigns a mentor to a client's project.
func (s *Service) LinkClientMentor(ctx context.Context, key ClientMentorKey) error {
	if err := s.requireCycle(ctx, key.CycleID); err != nil {
		return err
	}
	return s.translateLinkErr(s.store.LinkClientMentor(ctx, key), "client-mentor")
}

func (s *Service) UnlinkClientMentor(ctx context.Context, key ClientMentorKey) error {
	return s.translateUnlinkErr(s.store.UnlinkClientMentor(ctx, key), "client-mentor")
}

// LinkVolunteerMentor pairs a volunteer with a mentor.
func (s *Service) LinkVolunteerMentor(ctx context.Context, key VolunteerMentorKey) error {
	if err := s.requireCycle(ctx, key.CycleID); err != nil {
		return err
	}
	return s.translateLinkErr(s.store.LinkVolunteerMentor(ctx, key), "volunteer-mentor")
}

func (s *Service) UnlinkVolunteerMentor(ctx context.Context, key VolunteerMentorKey) error {
	return s.translateUnlinkErr(s.store.UnlinkVolunteerMentor(ctx, key), "volunteer-mentor")
}

// LinkVolunteerTeamRole records a volunteer's role on their project team.
func (s *Service) LinkVolunteerTeamRole(ctx context.Context, key VolunteerTeamRoleKey) error {
	if err := s.requireCycle(ctx, key.CycleID); err != nil {
		return err
	}
	return s.translateLinkErr(s.store.LinkVolunteerTeamRole(ctx, key), "volunteer-team-role")
}

func (s *Service) UnlinkVolunteerTeamRole(ctx context.Context, key VolunteerTeamRoleKey) error {
	return s.translateUnlinkErr(s.store.UnlinkVolunteerTeamRole(ctx, key), "volunteer-team-role")
}

func (s *Service) translateLinkErr(err error, relation string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Newf(dErrors.CodeDuplicateRelation, "%s relation already exists", relation)
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeConstraint, "%s relation references a missing row", relation)
	}
	return translateStoreErr(err, "link "+relation)
}

func (s *Service) translateUnlinkErr(err error, relation string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s relation not found", relation)
	}
	return translateStoreErr(err, "unlink "+relation)
}

func (s *Service) observeDetailRead(kind string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDetailRead(kind, start)
	}
}

func translateStoreErr(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, op)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeInternalConsistency, op)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, op)
}
