package roster

import (
	"strings"

	"pantheon/pkg/domain"
	dErrors "pantheon/pkg/domain-errors"
)

// Param structs carry raw caller input. Enumerated fields arrive as strings
// and are validated against their closed value sets exactly once, here, on
// the way into a model. Anything that survives conversion is persistable.

type CreateVolunteerParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	Gender       string
	Ethnicities  []string
	AgeRange     string
	Universities []string
	Lgbt         string
	Country      string
	USState      *string
	Fli          []string
	StudentStage string
	Majors       []string
	Minors       []string
	HearAbout    []string
}

func (p CreateVolunteerParams) toModel(cycleID domain.CycleID) (*Volunteer, error) {
	if err := requireFields(map[string]string{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"country":    p.Country,
	}); err != nil {
		return nil, err
	}
	gender, err := domain.ParseGender(p.Gender)
	if err != nil {
		return nil, err
	}
	ethnicities, err := domain.ParseEthnicities(p.Ethnicities)
	if err != nil {
		return nil, err
	}
	ageRange, err := domain.ParseAgeRange(p.AgeRange)
	if err != nil {
		return nil, err
	}
	lgbt, err := domain.ParseLgbtStatus(p.Lgbt)
	if err != nil {
		return nil, err
	}
	fli, err := domain.ParseFliStatuses(p.Fli)
	if err != nil {
		return nil, err
	}
	stage, err := domain.ParseStudentStage(p.StudentStage)
	if err != nil {
		return nil, err
	}
	hearAbout, err := domain.ParseHearAbouts(p.HearAbout)
	if err != nil {
		return nil, err
	}
	return &Volunteer{
		ProjectCycleID: cycleID,
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Email:          normalizeEmail(p.Email),
		Phone:          p.Phone,
		Gender:         gender,
		Ethnicities:    ethnicities,
		AgeRange:       ageRange,
		Universities:   p.Universities,
		Lgbt:           lgbt,
		Country:        p.Country,
		USState:        p.USState,
		Fli:            fli,
		StudentStage:   stage,
		Majors:         p.Majors,
		Minors:         p.Minors,
		HearAbout:      hearAbout,
	}, nil
}

type CreateMentorParams struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           *string
	Company         string
	JobTitle        string
	Country         string
	USState         *string
	YearsExperience string
	ExperienceLevel string
	PriorMentor     bool
	PriorMentee     bool
	PriorStudent    bool
	Universities    []string
	HearAbout       []string
}

func (p CreateMentorParams) toModel(cycleID domain.CycleID) (*Mentor, error) {
	if err := requireFields(map[string]string{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"company":    p.Company,
		"job_title":  p.JobTitle,
		"country":    p.Country,
	}); err != nil {
		return nil, err
	}
	years, err := domain.ParseMentorYearsExperience(p.YearsExperience)
	if err != nil {
		return nil, err
	}
	level, err := domain.ParseMentorExperienceLevel(p.ExperienceLevel)
	if err != nil {
		return nil, err
	}
	hearAbout, err := domain.ParseHearAbouts(p.HearAbout)
	if err != nil {
		return nil, err
	}
	return &Mentor{
		ProjectCycleID:  cycleID,
		FirstName:       strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		Email:           normalizeEmail(p.Email),
		Phone:           p.Phone,
		Company:         p.Company,
		JobTitle:        p.JobTitle,
		Country:         p.Country,
		USState:         p.USState,
		YearsExperience: years,
		ExperienceLevel: level,
		PriorMentor:     p.PriorMentor,
		PriorMentee:     p.PriorMentee,
		PriorStudent:    p.PriorStudent,
		Universities:    p.Universities,
		HearAbout:       hearAbout,
	}, nil
}

type CreateNonprofitParams struct {
	RepFirstName string
	RepLastName  string
	RepJobTitle  string
	Email        string
	EmailCC      *string
	Phone        string
	OrgName      string
	ProjectName  string
	OrgWebsite   *string
	CountryHQ    *string
	USStateHQ    *string
	Address      string
	Size         string
	ImpactCauses []string
}

func (p CreateNonprofitParams) toModel(cycleID domain.CycleID) (*NonprofitClient, error) {
	if err := requireFields(map[string]string{
		"representative_first_name": p.RepFirstName,
		"representative_last_name":  p.RepLastName,
		"email":                     p.Email,
		"org_name":                  p.OrgName,
		"project_name":              p.ProjectName,
	}); err != nil {
		return nil, err
	}
	size, err := domain.ParseClientSize(p.Size)
	if err != nil {
		return nil, err
	}
	causes, err := domain.ParseImpactCauses(p.ImpactCauses)
	if err != nil {
		return nil, err
	}
	return &NonprofitClient{
		ProjectCycleID: cycleID,
		RepFirstName:   strings.TrimSpace(p.RepFirstName),
		RepLastName:    strings.TrimSpace(p.RepLastName),
		RepJobTitle:    p.RepJobTitle,
		Email:          normalizeEmail(p.Email),
		EmailCC:        p.EmailCC,
		Phone:          p.Phone,
		OrgName:        p.OrgName,
		ProjectName:    p.ProjectName,
		OrgWebsite:     p.OrgWebsite,
		CountryHQ:      p.CountryHQ,
		USStateHQ:      p.USStateHQ,
		Address:        p.Address,
		Size:           size,
		ImpactCauses:   causes,
	}, nil
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			return dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", name)
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
