package domain

import (
	dErrors "pantheon/pkg/domain-errors"
)

// The value sets below mirror the closed selections offered during program
// signup plus the job lifecycle states. They are deliberately not
// extensible at runtime; adding a value is a schema change.

// Gender is a volunteer's self-reported gender.
type Gender string

const (
	GenderWoman          Gender = "woman"
	GenderMan            Gender = "man"
	GenderNonBinary      Gender = "non_binary"
	GenderSelfDescribed  Gender = "self_described"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Ethnicity is one of a volunteer's self-reported ethnicities.
type Ethnicity string

const (
	EthnicityAsian                           Ethnicity = "asian"
	EthnicityWhiteOrCaucasian                Ethnicity = "white_or_caucasian"
	EthnicityBlackOrAfricanAmerican          Ethnicity = "black_or_african_american"
	EthnicityAmericanIndianOrAlaskaNative    Ethnicity = "american_indian_or_alaska_native"
	EthnicityNativeHawaiianOrPacificIslander Ethnicity = "native_hawaiian_or_pacific_islander"
	EthnicityLatinoOrHispanic                Ethnicity = "latino_or_hispanic"
	EthnicityOther                           Ethnicity = "other"
	EthnicityPreferNotToSay                  Ethnicity = "prefer_not_to_say"
)

// AgeRange buckets a volunteer's age.
type AgeRange string

const (
	AgeRange18To24 AgeRange = "18-24"
	AgeRange25To29 AgeRange = "25-29"
	AgeRange30To34 AgeRange = "30-34"
	AgeRange35To39 AgeRange = "35-39"
	AgeRange40To44 AgeRange = "40-44"
	AgeRange45To59 AgeRange = "45-59"
	AgeRange60To64 AgeRange = "60-64"
	AgeRangeOver65 AgeRange = "65+"
)

// LgbtStatus records whether a volunteer identifies as LGBTQ+.
type LgbtStatus string

const (
	LgbtYes            LgbtStatus = "yes"
	LgbtNo             LgbtStatus = "no"
	LgbtAlly           LgbtStatus = "ally"
	LgbtPreferNotToSay LgbtStatus = "prefer_not_to_say"
)

// FliStatus records first-generation / low-income status.
type FliStatus string

const (
	FliFirstGeneration FliStatus = "first_generation"
	FliLowIncome       FliStatus = "low_income"
	FliNeither         FliStatus = "neither"
	FliPreferNotToSay  FliStatus = "prefer_not_to_say"
)

// StudentStage is where a volunteer is in their studies.
type StudentStage string

const (
	StageFreshman       StudentStage = "freshman"
	StageSophomore      StudentStage = "sophomore"
	StageJunior         StudentStage = "junior"
	StageSenior         StudentStage = "senior"
	StageMasters        StudentStage = "masters_student"
	StagePhd            StudentStage = "phd_student"
	StageRecentGraduate StudentStage = "recent_graduate"
)

// VolunteerHearAbout is how a volunteer heard about the program.
type VolunteerHearAbout string

const (
	HearAboutLinkedin       VolunteerHearAbout = "linkedin"
	HearAboutUniversity     VolunteerHearAbout = "university"
	HearAboutCompanyImpact  VolunteerHearAbout = "company_social_impact_team"
	HearAboutColleague      VolunteerHearAbout = "colleague"
	HearAboutProgramMember  VolunteerHearAbout = "program_member"
	HearAboutNonprofit      VolunteerHearAbout = "nonprofit"
	HearAboutOnlineAd       VolunteerHearAbout = "online_ad"
	HearAboutInstagram      VolunteerHearAbout = "instagram"
	HearAboutWordOfMouth    VolunteerHearAbout = "word_of_mouth"
	HearAboutBootcamp       VolunteerHearAbout = "bootcamp"
	HearAboutDiscordOrSlack VolunteerHearAbout = "discord_or_slack"
	HearAboutUnknown        VolunteerHearAbout = "unknown"
	HearAboutOther          VolunteerHearAbout = "other"
)

// ImpactCause is a cause area a nonprofit client works in.
type ImpactCause string

const (
	CauseAnimals           ImpactCause = "animals"
	CauseCareerDevelopment ImpactCause = "career_and_professional_development"
	CauseDisasterRelief    ImpactCause = "disaster_relief"
	CauseEducation         ImpactCause = "education"
	CauseEnvironment       ImpactCause = "environment_and_sustainability"
	CauseFaithAndReligion  ImpactCause = "faith_and_religion"
	CauseHealthAndMedicine ImpactCause = "health_and_medicine"
	CauseGlobalRelations   ImpactCause = "global_relations"
	CausePovertyAndHunger  ImpactCause = "poverty_and_hunger"
	CauseSeniorServices    ImpactCause = "senior_services"
	CauseJusticeAndEquity  ImpactCause = "justice_and_equity"
	CauseVeterans          ImpactCause = "veterans_and_military_families"
	CauseOther             ImpactCause = "other"
)

// ClientSize buckets a nonprofit client's headcount.
type ClientSize string

const (
	ClientSize0        ClientSize = "0"
	ClientSize1To5     ClientSize = "1-5"
	ClientSize6To20    ClientSize = "6-20"
	ClientSize21To50   ClientSize = "21-50"
	ClientSize51To100  ClientSize = "51-100"
	ClientSize101To500 ClientSize = "101-500"
	ClientSizeOver500  ClientSize = "500+"
)

// MentorYearsExperience buckets a mentor's years of industry experience.
type MentorYearsExperience string

const (
	Years2To5   MentorYearsExperience = "2-5"
	Years6To10  MentorYearsExperience = "6-10"
	Years11To15 MentorYearsExperience = "11-15"
	Years16To20 MentorYearsExperience = "16-20"
	YearsOver21 MentorYearsExperience = "21+"
)

// MentorExperienceLevel is a mentor's seniority.
type MentorExperienceLevel string

const (
	LevelIntermediate         MentorExperienceLevel = "intermediate"
	LevelFirstLevelManagement MentorExperienceLevel = "first_level_management"
	LevelMiddleManagement     MentorExperienceLevel = "middle_management"
	LevelSeniorOrExecutive    MentorExperienceLevel = "senior_or_executive"
)

// JobStatus is the lifecycle state of an asynchronous integration job.
// Pending is the only non-terminal state.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobComplete  JobStatus = "complete"
	JobCancelled JobStatus = "cancelled"
	JobError     JobStatus = "error"
)

// Terminal reports whether no further transition is permitted.
func (s JobStatus) Terminal() bool { return s != JobPending }

// ExportDestination is where volunteers can be exported to.
type ExportDestination string

const (
	DestinationGoogleWorkspace ExportDestination = "google_workspace"
	DestinationOkta            ExportDestination = "okta"
)

func allowlist[T ~string](values ...T) map[T]struct{} {
	m := make(map[T]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

var (
	genders = allowlist(GenderWoman, GenderMan, GenderNonBinary, GenderSelfDescribed,
		GenderPreferNotToSay)
	ethnicities = allowlist(EthnicityAsian, EthnicityWhiteOrCaucasian,
		EthnicityBlackOrAfricanAmerican, EthnicityAmericanIndianOrAlaskaNative,
		EthnicityNativeHawaiianOrPacificIslander, EthnicityLatinoOrHispanic,
		EthnicityOther, EthnicityPreferNotToSay)
	ageRanges = allowlist(AgeRange18To24, AgeRange25To29, AgeRange30To34, AgeRange35To39,
		AgeRange40To44, AgeRange45To59, AgeRange60To64, AgeRangeOver65)
	lgbtStatuses = allowlist(LgbtYes, LgbtNo, LgbtAlly, LgbtPreferNotToSay)
	fliStatuses  = allowlist(FliFirstGeneration, FliLowIncome, FliNeither, FliPreferNotToSay)
	studentStages = allowlist(StageFreshman, StageSophomore, StageJunior, StageSenior,
		StageMasters, StagePhd, StageRecentGraduate)
	hearAbouts = allowlist(HearAboutLinkedin, HearAboutUniversity, HearAboutCompanyImpact,
		HearAboutColleague, HearAboutProgramMember, HearAboutNonprofit, HearAboutOnlineAd,
		HearAboutInstagram, HearAboutWordOfMouth, HearAboutBootcamp, HearAboutDiscordOrSlack,
		HearAboutUnknown, HearAboutOther)
	impactCauses = allowlist(CauseAnimals, CauseCareerDevelopment, CauseDisasterRelief,
		CauseEducation, CauseEnvironment, CauseFaithAndReligion, CauseHealthAndMedicine,
		CauseGlobalRelations, CausePovertyAndHunger, CauseSeniorServices,
		CauseJusticeAndEquity, CauseVeterans, CauseOther)
	clientSizes = allowlist(ClientSize0, ClientSize1To5, ClientSize6To20, ClientSize21To50,
		ClientSize51To100, ClientSize101To500, ClientSizeOver500)
	yearsExperience = allowlist(Years2To5, Years6To10, Years11To15, Years16To20, YearsOver21)
	experienceLevels = allowlist(LevelIntermediate, LevelFirstLevelManagement,
		LevelMiddleManagement, LevelSeniorOrExecutive)
	jobStatuses  = allowlist(JobPending, JobComplete, JobCancelled, JobError)
	destinations = allowlist(DestinationGoogleWorkspace, DestinationOkta)
)

func parseValue[T ~string](set map[T]struct{}, field, raw string) (T, error) {
	v := T(raw)
	if _, ok := set[v]; !ok {
		return "", dErrors.Newf(dErrors.CodeDomainViolation,
			"%s: %q is not a valid value", field, raw)
	}
	return v, nil
}

func parseValues[T ~string](set map[T]struct{}, field string, raw []string) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, err := parseValue(set, field, r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func ParseGender(s string) (Gender, error) { return parseValue(genders, "gender", s) }

func ParseEthnicities(s []string) ([]Ethnicity, error) {
	return parseValues(ethnicities, "ethnicity", s)
}

func ParseAgeRange(s string) (AgeRange, error) { return parseValue(ageRanges, "age_range", s) }

func ParseLgbtStatus(s string) (LgbtStatus, error) { return parseValue(lgbtStatuses, "lgbt", s) }

func ParseFliStatuses(s []string) ([]FliStatus, error) { return parseValues(fliStatuses, "fli", s) }

func ParseStudentStage(s string) (StudentStage, error) {
	return parseValue(studentStages, "student_stage", s)
}

func ParseHearAbouts(s []string) ([]VolunteerHearAbout, error) {
	return parseValues(hearAbouts, "hear_about", s)
}

func ParseImpactCauses(s []string) ([]ImpactCause, error) {
	return parseValues(impactCauses, "impact_causes", s)
}

func ParseClientSize(s string) (ClientSize, error) { return parseValue(clientSizes, "size", s) }

func ParseMentorYearsExperience(s string) (MentorYearsExperience, error) {
	return parseValue(yearsExperience, "years_experience", s)
}

func ParseMentorExperienceLevel(s string) (MentorExperienceLevel, error) {
	return parseValue(experienceLevels, "experience_level", s)
}

func ParseJobStatus(s string) (JobStatus, error) { return parseValue(jobStatuses, "status", s) }

func ParseExportDestination(s string) (ExportDestination, error) {
	return parseValue(destinations, "export_destination", s)
}
