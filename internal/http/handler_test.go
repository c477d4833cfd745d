package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"pantheon/internal/cycle"
	"pantheon/internal/dataexport"
	"pantheon/internal/dataimport"
	"pantheon/internal/integration/airtable"
	"pantheon/internal/integration/mail"
	"pantheon/internal/integration/workspace"
	"pantheon/internal/job"
	"pantheon/internal/platform/middleware"
	"pantheon/internal/roster"
	"pantheon/internal/storage/memory"
)

const (
	apiSigningKey = "test-signing-key"
	apiOperator   = "operator@example.org"
)

type APISuite struct {
	suite.Suite
	store  *memory.Store
	server http.Handler
	token  string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.store = memory.New()
	log := zap.NewNop()
	cycles := cycle.NewService(s.store)
	rosterSvc := roster.NewService(s.store, s.store)
	jobs := job.NewService(s.store, s.store)
	imports := dataimport.NewService(airtable.Noop{}, cycles, rosterSvc, jobs, log)
	exports := dataexport.NewService(workspace.Noop{}, mail.Noop{}, cycles, rosterSvc, jobs, log)
	h := NewHandler(cycles, rosterSvc, jobs, imports, exports, log)
	s.server = NewRouter(h, middleware.NewHS256Verifier(apiSigningKey), log)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": apiOperator,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(apiSigningKey))
	s.Require().NoError(err)
	s.token = token
}

// do issues an authenticated request against the in-memory router.
func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decodeBody(rec *httptest.ResponseRecorder, dest any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), dest))
}

func (s *APISuite) createCycle(name string) string {
	rec := s.do(http.MethodPost, "/api/v1/project-cycles", map[string]string{"name": name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	s.decodeBody(rec, &created)
	return created.ID
}

func volunteerBody(email string) map[string]any {
	return map[string]any{
		"firstName":    "Ada",
		"lastName":     "Lovelace",
		"email":        email,
		"gender":       "woman",
		"ageRange":     "18-24",
		"lgbt":         "prefer_not_to_say",
		"country":      "United States",
		"studentStage": "junior",
	}
}

func (s *APISuite) createVolunteer(cycleID, email string) string {
	rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/volunteers", volunteerBody(email))
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	s.decodeBody(rec, &created)
	return created.ID
}

func (s *APISuite) TestHealthzIsOpen() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestAPIRequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/project-cycles", nil)
	rec := httptest.NewRecorder()
	s.server.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestCycleLifecycle() {
	id := s.createCycle("Spring 2026")

	s.Run("duplicate name maps to 409", func() {
		rec := s.do(http.MethodPost, "/api/v1/project-cycles", map[string]string{"name": "Spring 2026"})
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("missing name maps to 400", func() {
		rec := s.do(http.MethodPost, "/api/v1/project-cycles", map[string]string{"description": "no name"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown fields are rejected", func() {
		rec := s.do(http.MethodPost, "/api/v1/project-cycles", map[string]string{"name": "Fall 2026", "nmae": "typo"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("get returns the cycle", func() {
		rec := s.do(http.MethodGet, "/api/v1/project-cycles/"+id, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var got struct {
			Name string `json:"name"`
		}
		s.decodeBody(rec, &got)
		s.Equal("Spring 2026", got.Name)
	})

	s.Run("unknown id maps to 404", func() {
		rec := s.do(http.MethodGet, "/api/v1/project-cycles/6a6e2abc-0000-4000-8000-000000000000", nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("malformed id maps to 400", func() {
		rec := s.do(http.MethodGet, "/api/v1/project-cycles/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("patch archives and stats read back", func() {
		rec := s.do(http.MethodPatch, "/api/v1/project-cycles/"+id, map[string]any{"archived": true})
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/project-cycles/"+id+"/stats", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var stats struct {
			NumVolunteers int64 `json:"numVolunteers"`
		}
		s.decodeBody(rec, &stats)
		s.Zero(stats.NumVolunteers)
	})

	s.Run("delete removes the cycle", func() {
		rec := s.do(http.MethodDelete, "/api/v1/project-cycles/"+id, nil)
		s.Equal(http.StatusNoContent, rec.Code)
		rec = s.do(http.MethodGet, "/api/v1/project-cycles/"+id, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *APISuite) TestVolunteerEndpoints() {
	cycleID := s.createCycle("Spring 2026")
	volunteerID := s.createVolunteer(cycleID, "ada@example.org")

	s.Run("duplicate email maps to 409", func() {
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/volunteers", volunteerBody("ada@example.org"))
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("invalid enum value maps to 422", func() {
		body := volunteerBody("bad@example.org")
		body["gender"] = "female"
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/volunteers", body)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("malformed email maps to 400", func() {
		body := volunteerBody("not-an-email")
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/volunteers", body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("detail view includes the cycle name", func() {
		rec := s.do(http.MethodGet, "/api/v1/volunteers/"+volunteerID, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var got struct {
			ProjectCycleName string `json:"projectCycleName"`
			Clients          []any  `json:"clients"`
		}
		s.decodeBody(rec, &got)
		s.Equal("Spring 2026", got.ProjectCycleName)
		s.NotNil(got.Clients)
	})

	s.Run("email lookup finds the volunteer", func() {
		rec := s.do(http.MethodGet, "/api/v1/volunteers?email=ada@example.org", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var got struct {
			ID string `json:"id"`
		}
		s.decodeBody(rec, &got)
		s.Equal(volunteerID, got.ID)
	})

	s.Run("batch create returns the id map", func() {
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/volunteers/batch", map[string]any{
			"volunteers": []map[string]any{
				volunteerBody("b1@example.org"),
				volunteerBody("b2@example.org"),
			},
		})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var got struct {
			Created map[string]string `json:"created"`
		}
		s.decodeBody(rec, &got)
		s.Len(got.Created, 2)
		s.Contains(got.Created, "b1@example.org")
	})

	s.Run("edit and delete", func() {
		rec := s.do(http.MethodPatch, "/api/v1/volunteers/"+volunteerID, map[string]any{
			"email": "ada.l@example.org",
		})
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodDelete, "/api/v1/volunteers/"+volunteerID, nil)
		s.Equal(http.StatusNoContent, rec.Code)
		rec = s.do(http.MethodGet, "/api/v1/volunteers/"+volunteerID, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *APISuite) TestMentorAndNonprofitEdits() {
	cycleID := s.createCycle("Spring 2026")

	rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/mentors", map[string]any{
		"firstName":       "Grace",
		"lastName":        "Hopper",
		"email":           "grace@example.org",
		"company":         "Fleet Numerics",
		"jobTitle":        "Staff Engineer",
		"country":         "United States",
		"yearsExperience": "11-15",
		"experienceLevel": "senior_or_executive",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var mentor struct {
		ID string `json:"id"`
	}
	s.decodeBody(rec, &mentor)

	rec = s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/nonprofits", map[string]any{
		"representativeFirstName": "Jane",
		"representativeLastName":  "Addams",
		"email":                   "jane@oceantrust.org",
		"orgName":                 "Ocean Trust",
		"projectName":             "Beach Cleanup",
		"size":                    "1-5",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var client struct {
		ID string `json:"id"`
	}
	s.decodeBody(rec, &client)

	s.Run("mentor patch updates name and email", func() {
		rec := s.do(http.MethodPatch, "/api/v1/mentors/"+mentor.ID, map[string]any{
			"firstName": "Grace",
			"lastName":  "Hopper-Murray",
			"email":     "grace.hopper@example.org",
		})
		s.Equal(http.StatusNoContent, rec.Code, rec.Body.String())

		rec = s.do(http.MethodGet, "/api/v1/mentors?email=grace.hopper@example.org", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var got struct {
			LastName string `json:"lastName"`
		}
		s.decodeBody(rec, &got)
		s.Equal("Hopper-Murray", got.LastName)
	})

	s.Run("mentor patch without a last name maps to 400", func() {
		rec := s.do(http.MethodPatch, "/api/v1/mentors/"+mentor.ID, map[string]any{
			"firstName": "Grace",
			"email":     "grace@example.org",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("nonprofit patch updates contact fields", func() {
		rec := s.do(http.MethodPatch, "/api/v1/nonprofits/"+client.ID, map[string]any{
			"email":      "contact@oceantrust.org",
			"phone":      "+1 555 0150",
			"orgWebsite": "https://oceantrust.org",
		})
		s.Equal(http.StatusNoContent, rec.Code, rec.Body.String())

		rec = s.do(http.MethodGet, "/api/v1/nonprofits/"+client.ID, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var got struct {
			Email      string  `json:"email"`
			OrgWebsite *string `json:"orgWebsite"`
		}
		s.decodeBody(rec, &got)
		s.Equal("contact@oceantrust.org", got.Email)
		s.Require().NotNil(got.OrgWebsite)
		s.Equal("https://oceantrust.org", *got.OrgWebsite)
	})

	s.Run("nonprofit patch on an unknown id maps to 404", func() {
		rec := s.do(http.MethodPatch, "/api/v1/nonprofits/6a6e2abc-0000-4000-8000-000000000000",
			map[string]any{"email": "ghost@example.org"})
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *APISuite) TestRelationEndpoints() {
	cycleID := s.createCycle("Spring 2026")
	volunteerID := s.createVolunteer(cycleID, "ada@example.org")

	rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/nonprofits", map[string]any{
		"representativeFirstName": "Jane",
		"representativeLastName":  "Addams",
		"email":                   "jane@oceantrust.org",
		"orgName":                 "Ocean Trust",
		"projectName":             "Beach Cleanup",
		"size":                    "1-5",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var client struct {
		ID string `json:"id"`
	}
	s.decodeBody(rec, &client)

	linkPath := fmt.Sprintf("/api/v1/project-cycles/%s/nonprofits/%s/volunteers/%s",
		cycleID, client.ID, volunteerID)

	s.Run("link and relink", func() {
		rec := s.do(http.MethodPut, linkPath, map[string]any{"currentlyActive": true})
		s.Equal(http.StatusNoContent, rec.Code)
		rec = s.do(http.MethodPut, linkPath, map[string]any{"currentlyActive": true})
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("a body-less link defaults to inactive", func() {
		roleRec := s.do(http.MethodPost, "/api/v1/team-roles", map[string]any{"name": "engineer"})
		s.Require().Equal(http.StatusCreated, roleRec.Code)
		var role struct {
			ID string `json:"id"`
		}
		s.decodeBody(roleRec, &role)

		rolePath := fmt.Sprintf("/api/v1/project-cycles/%s/volunteers/%s/team-roles/%s",
			cycleID, volunteerID, role.ID)
		rec := s.do(http.MethodPut, rolePath, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("unlink twice maps to 404", func() {
		rec := s.do(http.MethodDelete, linkPath, nil)
		s.Equal(http.StatusNoContent, rec.Code)
		rec = s.do(http.MethodDelete, linkPath, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("linking a ghost row maps to 422", func() {
		ghost := fmt.Sprintf("/api/v1/project-cycles/%s/nonprofits/%s/volunteers/%s",
			cycleID, client.ID, "6a6e2abc-0000-4000-8000-000000000000")
		rec := s.do(http.MethodPut, ghost, nil)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *APISuite) TestJobEndpoints() {
	cycleID := s.createCycle("Spring 2026")

	rec := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{
		"projectCycleId": cycleID,
		"label":          "nightly roster sync",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decodeBody(rec, &created)
	s.Equal("pending", created.Status)

	s.Run("status transition and terminal guard", func() {
		rec := s.do(http.MethodPost, "/api/v1/jobs/"+created.ID+"/status", map[string]any{"status": "complete"})
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodPost, "/api/v1/jobs/"+created.ID+"/status", map[string]any{"status": "error"})
		s.Equal(http.StatusConflict, rec.Code)

		rec = s.do(http.MethodPost, "/api/v1/jobs/"+created.ID+"/cancel", nil)
		s.Equal(http.StatusConflict, rec.Code)
	})

	s.Run("unknown status maps to 422", func() {
		other := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{"label": "second"})
		s.Require().Equal(http.StatusCreated, other.Code)
		var j struct {
			ID string `json:"id"`
		}
		s.decodeBody(other, &j)

		rec := s.do(http.MethodPost, "/api/v1/jobs/"+j.ID+"/status", map[string]any{"status": "done"})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("listing includes the job", func() {
		rec := s.do(http.MethodGet, "/api/v1/jobs", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var jobs []struct {
			ID string `json:"id"`
		}
		s.decodeBody(rec, &jobs)
		s.NotEmpty(jobs)
	})
}

func (s *APISuite) TestExportEndpoints() {
	cycleID := s.createCycle("Spring 2026")
	s.createVolunteer(cycleID, "ada@example.org")

	exportBody := map[string]any{
		"destination":         "google_workspace",
		"orgUnit":             "/students",
		"domain":              "corp.example.com",
		"useFirstAndLastName": true,
		"passwordLength":      12,
	}

	s.Run("start is accepted", func() {
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/exports", exportBody)
		s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())
		var j struct {
			Status string `json:"status"`
		}
		s.decodeBody(rec, &j)
		s.Equal("pending", j.Status)
	})

	s.Run("a bare hostname fails domain validation", func() {
		body := map[string]any{"destination": "google_workspace", "domain": "not a domain"}
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/exports", body)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown destination maps to 422", func() {
		body := map[string]any{"destination": "azure_ad", "domain": "corp.example.com"}
		rec := s.do(http.MethodPost, "/api/v1/project-cycles/"+cycleID+"/exports", body)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("exported listing starts empty for a fresh cycle", func() {
		fresh := s.createCycle("Fall 2026")
		rec := s.do(http.MethodGet, "/api/v1/project-cycles/"+fresh+"/exports", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})
}

func (s *APISuite) TestImportEndpoint() {
	rec := s.do(http.MethodPost, "/api/v1/imports", map[string]any{
		"baseId":    "app123",
		"cycleName": "Imported Spring 2026",
	})
	s.Require().Equal(http.StatusAccepted, rec.Code, rec.Body.String())
	var j struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decodeBody(rec, &j)
	s.Equal("pending", j.Status)
}
