package dataimport

import (
	"slices"
	"strings"

	"pantheon/internal/integration/airtable"
	"pantheon/internal/roster"
)

// roleTeamMentor is the project role that marks a mentor as attached to
// the orgs listed on their record.
const roleTeamMentor = "Team Mentor"

// Airtable cells arrive untyped. These helpers pull the shapes the cohort
// bases actually use: strings, multi-selects ([]any of strings), and
// checkbox booleans. Missing or mistyped cells degrade to zero values; the
// roster service validates the results against the closed value sets.

func cellString(fields map[string]any, key string) string {
	v, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func cellStringPtr(fields map[string]any, key string) *string {
	v := cellString(fields, key)
	if v == "" {
		return nil
	}
	return &v
}

func cellStrings(fields map[string]any, key string) []string {
	raw, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func cellBool(fields map[string]any, key string) bool {
	v, ok := fields[key].(bool)
	return ok && v
}

// mapNonprofits converts nonprofit records and collects each org's team
// member emails for the relation pass after the creates land.
func mapNonprofits(records []airtable.Record) ([]roster.CreateNonprofitParams, map[string][]string) {
	params := make([]roster.CreateNonprofitParams, 0, len(records))
	teams := make(map[string][]string)
	for _, r := range records {
		p := roster.CreateNonprofitParams{
			RepFirstName: cellString(r.Fields, "FirstName"),
			RepLastName:  cellString(r.Fields, "LastName"),
			RepJobTitle:  cellString(r.Fields, "JobTitle"),
			Email:        cellString(r.Fields, "Email"),
			EmailCC:      cellStringPtr(r.Fields, "EmailCC"),
			Phone:        cellString(r.Fields, "Phone"),
			OrgName:      cellString(r.Fields, "OrgName"),
			ProjectName:  cellString(r.Fields, "ProjectName"),
			OrgWebsite:   cellStringPtr(r.Fields, "OrgWebsite"),
			CountryHQ:    cellStringPtr(r.Fields, "CountryHQ"),
			USStateHQ:    cellStringPtr(r.Fields, "StateHQ"),
			Address:      cellString(r.Fields, "Address"),
			Size:         cellString(r.Fields, "OrgSize"),
			ImpactCauses: cellStrings(r.Fields, "ImpactCauses"),
		}
		params = append(params, p)
		if members := cellStrings(r.Fields, "TeamMemberEmails"); len(members) > 0 {
			teams[p.OrgName] = lowercaseAll(members)
		}
	}
	return params, teams
}

func mapVolunteers(records []airtable.Record) []roster.CreateVolunteerParams {
	params := make([]roster.CreateVolunteerParams, 0, len(records))
	for _, r := range records {
		params = append(params, roster.CreateVolunteerParams{
			FirstName:    cellString(r.Fields, "FirstName"),
			LastName:     cellString(r.Fields, "LastName"),
			Email:        cellString(r.Fields, "Email"),
			Phone:        cellStringPtr(r.Fields, "Phone"),
			Gender:       cellString(r.Fields, "Gender"),
			Ethnicities:  cellStrings(r.Fields, "Ethnicity"),
			AgeRange:     cellString(r.Fields, "AgeRange"),
			Universities: cellStrings(r.Fields, "University"),
			Lgbt:         cellString(r.Fields, "LGBT"),
			Country:      cellString(r.Fields, "Country"),
			USState:      cellStringPtr(r.Fields, "State"),
			Fli:          cellStrings(r.Fields, "FLI"),
			StudentStage: cellString(r.Fields, "StudentStage"),
			Majors:       cellStrings(r.Fields, "Majors"),
			Minors:       cellStrings(r.Fields, "Minors"),
			HearAbout:    cellStrings(r.Fields, "HearAbout"),
		})
	}
	return params
}

// mapMentors converts mentor records and collects the relation inputs for
// the pass after the creates land: each mentor's mentee emails, and the org
// names of team-mentor records.
func mapMentors(records []airtable.Record) ([]roster.CreateMentorParams, map[string][]string, map[string][]string) {
	params := make([]roster.CreateMentorParams, 0, len(records))
	mentees := make(map[string][]string)
	orgs := make(map[string][]string)
	for _, r := range records {
		p := roster.CreateMentorParams{
			FirstName:       cellString(r.Fields, "FirstName"),
			LastName:        cellString(r.Fields, "LastName"),
			Email:           cellString(r.Fields, "Email"),
			Phone:           cellStringPtr(r.Fields, "Phone"),
			Company:         cellString(r.Fields, "Company"),
			JobTitle:        cellString(r.Fields, "JobTitle"),
			Country:         cellString(r.Fields, "Country"),
			USState:         cellStringPtr(r.Fields, "State"),
			YearsExperience: cellString(r.Fields, "YearsExperience"),
			ExperienceLevel: cellString(r.Fields, "ExperienceLevel"),
			PriorMentor:     cellBool(r.Fields, "PriorMentor"),
			PriorMentee:     cellBool(r.Fields, "PriorMentee"),
			PriorStudent:    cellBool(r.Fields, "PriorDFGStudent"),
			Universities:    cellStrings(r.Fields, "University"),
			HearAbout:       cellStrings(r.Fields, "HearAbout"),
		}
		params = append(params, p)
		if ms := cellStrings(r.Fields, "MenteeEmails"); len(ms) > 0 {
			mentees[strings.ToLower(p.Email)] = lowercaseAll(ms)
		}
		if slices.Contains(cellStrings(r.Fields, "ProjectRoles"), roleTeamMentor) {
			if names := cellStrings(r.Fields, "OrgNames"); len(names) > 0 {
				orgs[strings.ToLower(p.Email)] = names
			}
		}
	}
	return params, mentees, orgs
}

// lowercaseAll normalizes emails used as map keys: the roster service
// stores and returns addresses lowercased.
func lowercaseAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
