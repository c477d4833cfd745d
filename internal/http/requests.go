package httpapi

import (
	"pantheon/internal/dataexport"
	"pantheon/internal/dataimport"
	"pantheon/internal/integration/workspace"
	"pantheon/internal/roster"
)

// Request DTOs. Enumerated fields stay strings here; the services own the
// closed value sets and reject anything outside them.

type createCycleRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type editCycleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Archived    *bool   `json:"archived"`
}

type createVolunteerRequest struct {
	FirstName    string   `json:"firstName" validate:"required"`
	LastName     string   `json:"lastName" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        *string  `json:"phone"`
	Gender       string   `json:"gender" validate:"required"`
	Ethnicities  []string `json:"ethnicities"`
	AgeRange     string   `json:"ageRange" validate:"required"`
	Universities []string `json:"universities"`
	Lgbt         string   `json:"lgbt" validate:"required"`
	Country      string   `json:"country" validate:"required"`
	USState      *string  `json:"usState"`
	Fli          []string `json:"fli"`
	StudentStage string   `json:"studentStage" validate:"required"`
	Majors       []string `json:"majors"`
	Minors       []string `json:"minors"`
	HearAbout    []string `json:"hearAbout"`
}

func (r createVolunteerRequest) toParams() roster.CreateVolunteerParams {
	return roster.CreateVolunteerParams{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		Gender:       r.Gender,
		Ethnicities:  r.Ethnicities,
		AgeRange:     r.AgeRange,
		Universities: r.Universities,
		Lgbt:         r.Lgbt,
		Country:      r.Country,
		USState:      r.USState,
		Fli:          r.Fli,
		StudentStage: r.StudentStage,
		Majors:       r.Majors,
		Minors:       r.Minors,
		HearAbout:    r.HearAbout,
	}
}

type createVolunteersRequest struct {
	Volunteers []createVolunteerRequest `json:"volunteers" validate:"min=1,dive"`
}

type createMentorRequest struct {
	FirstName       string   `json:"firstName" validate:"required"`
	LastName        string   `json:"lastName" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           *string  `json:"phone"`
	Company         string   `json:"company" validate:"required"`
	JobTitle        string   `json:"jobTitle" validate:"required"`
	Country         string   `json:"country" validate:"required"`
	USState         *string  `json:"usState"`
	YearsExperience string   `json:"yearsExperience" validate:"required"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required"`
	PriorMentor     bool     `json:"priorMentor"`
	PriorMentee     bool     `json:"priorMentee"`
	PriorStudent    bool     `json:"priorStudent"`
	Universities    []string `json:"universities"`
	HearAbout       []string `json:"hearAbout"`
}

func (r createMentorRequest) toParams() roster.CreateMentorParams {
	return roster.CreateMentorParams{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		Company:         r.Company,
		JobTitle:        r.JobTitle,
		Country:         r.Country,
		USState:         r.USState,
		YearsExperience: r.YearsExperience,
		ExperienceLevel: r.ExperienceLevel,
		PriorMentor:     r.PriorMentor,
		PriorMentee:     r.PriorMentee,
		PriorStudent:    r.PriorStudent,
		Universities:    r.Universities,
		HearAbout:       r.HearAbout,
	}
}

type createMentorsRequest struct {
	Mentors []createMentorRequest `json:"mentors" validate:"min=1,dive"`
}

type createNonprofitRequest struct {
	RepFirstName string   `json:"representativeFirstName" validate:"required"`
	RepLastName  string   `json:"representativeLastName" validate:"required"`
	RepJobTitle  string   `json:"representativeJobTitle"`
	Email        string   `json:"email" validate:"required,email"`
	EmailCC      *string  `json:"emailCc"`
	Phone        string   `json:"phone"`
	OrgName      string   `json:"orgName" validate:"required"`
	ProjectName  string   `json:"projectName" validate:"required"`
	OrgWebsite   *string  `json:"orgWebsite"`
	CountryHQ    *string  `json:"countryHq"`
	USStateHQ    *string  `json:"usStateHq"`
	Address      string   `json:"address"`
	Size         string   `json:"size" validate:"required"`
	ImpactCauses []string `json:"impactCauses"`
}

func (r createNonprofitRequest) toParams() roster.CreateNonprofitParams {
	return roster.CreateNonprofitParams{
		RepFirstName: r.RepFirstName,
		RepLastName:  r.RepLastName,
		RepJobTitle:  r.RepJobTitle,
		Email:        r.Email,
		EmailCC:      r.EmailCC,
		Phone:        r.Phone,
		OrgName:      r.OrgName,
		ProjectName:  r.ProjectName,
		OrgWebsite:   r.OrgWebsite,
		CountryHQ:    r.CountryHQ,
		USStateHQ:    r.USStateHQ,
		Address:      r.Address,
		Size:         r.Size,
		ImpactCauses: r.ImpactCauses,
	}
}

type createNonprofitsRequest struct {
	Nonprofits []createNonprofitRequest `json:"nonprofits" validate:"min=1,dive"`
}

type editContactRequest struct {
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone"`
}

type editMentorRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone"`
}

type editNonprofitRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	EmailCC    *string `json:"emailCc"`
	Phone      string  `json:"phone"`
	OrgWebsite *string `json:"orgWebsite"`
}

type createTeamRoleRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type linkTeamMemberRequest struct {
	CurrentlyActive bool `json:"currentlyActive"`
}

type createJobRequest struct {
	ProjectCycleID *string        `json:"projectCycleId"`
	Label          string         `json:"label" validate:"required"`
	Description    *string        `json:"description"`
	Details        map[string]any `json:"details"`
}

type setJobStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	ErrorMessage *string `json:"errorMessage"`
}

type editJobRequest struct {
	Label       *string `json:"label"`
	Description *string `json:"description"`
}

type startImportRequest struct {
	BaseID           string `json:"baseId" validate:"required"`
	CycleName        string `json:"cycleName" validate:"required"`
	CycleDescription string `json:"cycleDescription"`
}

func (r startImportRequest) toRequest() dataimport.Request {
	return dataimport.Request{
		BaseID:           r.BaseID,
		CycleName:        r.CycleName,
		CycleDescription: r.CycleDescription,
	}
}

type startExportRequest struct {
	Destination             string `json:"destination" validate:"required"`
	OrgUnit                 string `json:"orgUnit"`
	Domain                  string `json:"domain" validate:"required,fqdn"`
	UseFirstAndLastName     bool   `json:"useFirstAndLastName"`
	Separator               string `json:"separator"`
	AddUniqueNumericSuffix  bool   `json:"addUniqueNumericSuffix"`
	PasswordLength          int    `json:"passwordLength"`
	ChangePasswordNextLogin bool   `json:"changePasswordAtNextLogin"`
}

func (r startExportRequest) toRequest(principal string) dataexport.Request {
	return dataexport.Request{
		Principal:   principal,
		Destination: r.Destination,
		OrgUnit:     r.OrgUnit,
		Email: workspace.EmailPolicy{
			UseFirstAndLastName:    r.UseFirstAndLastName,
			Separator:              r.Separator,
			AddUniqueNumericSuffix: r.AddUniqueNumericSuffix,
			Domain:                 r.Domain,
		},
		Password: workspace.PasswordPolicy{
			Length:                    r.PasswordLength,
			ChangePasswordAtNextLogin: r.ChangePasswordNextLogin,
		},
	}
}
