// Package domain defines the typed identifiers and closed value sets shared
// by every Pantheon storage and service layer. Values are validated once, at
// the trust boundary, via the Parse functions; direct casting bypasses
// validation and is reserved for trusted paths (store scans, tests).
package domain

import (
	"github.com/google/uuid"

	dErrors "pantheon/pkg/domain-errors"
)

// Typed UUIDs keep cycle, volunteer, mentor, client, role, job, and receipt
// ids from being mixed up at compile time.
type (
	CycleID     uuid.UUID
	VolunteerID uuid.UUID
	MentorID    uuid.UUID
	ClientID    uuid.UUID
	TeamRoleID  uuid.UUID
	JobID       uuid.UUID
	ReceiptID   uuid.UUID
)

func (id CycleID) String() string     { return uuid.UUID(id).String() }
func (id VolunteerID) String() string { return uuid.UUID(id).String() }
func (id MentorID) String() string    { return uuid.UUID(id).String() }
func (id ClientID) String() string    { return uuid.UUID(id).String() }
func (id TeamRoleID) String() string  { return uuid.UUID(id).String() }
func (id JobID) String() string       { return uuid.UUID(id).String() }
func (id ReceiptID) String() string   { return uuid.UUID(id).String() }

// Defined types do not inherit uuid.UUID's text marshaling, so each id
// spells it out; without these the ids would serialize as byte arrays.

func (id CycleID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id VolunteerID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id MentorID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id ClientID) MarshalText() ([]byte, error)    { return uuid.UUID(id).MarshalText() }
func (id TeamRoleID) MarshalText() ([]byte, error)  { return uuid.UUID(id).MarshalText() }
func (id JobID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id ReceiptID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }

func (id *CycleID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *VolunteerID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *MentorID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ClientID) UnmarshalText(b []byte) error    { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TeamRoleID) UnmarshalText(b []byte) error  { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *JobID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ReceiptID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }

func (id CycleID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id VolunteerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MentorID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ClientID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TeamRoleID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id ReceiptID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s id %q", kind, s)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id must not be the nil uuid", kind)
	}
	return u, nil
}

func ParseCycleID(s string) (CycleID, error) {
	u, err := parseUUID(s, "cycle")
	return CycleID(u), err
}

func ParseVolunteerID(s string) (VolunteerID, error) {
	u, err := parseUUID(s, "volunteer")
	return VolunteerID(u), err
}

func ParseMentorID(s string) (MentorID, error) {
	u, err := parseUUID(s, "mentor")
	return MentorID(u), err
}

func ParseClientID(s string) (ClientID, error) {
	u, err := parseUUID(s, "client")
	return ClientID(u), err
}

func ParseTeamRoleID(s string) (TeamRoleID, error) {
	u, err := parseUUID(s, "team role")
	return TeamRoleID(u), err
}

func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job")
	return JobID(u), err
}

func ParseReceiptID(s string) (ReceiptID, error) {
	u, err := parseUUID(s, "receipt")
	return ReceiptID(u), err
}
