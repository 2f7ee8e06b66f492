package models

import "strings"

// Role is the single authorization axis of a principal.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleParent  Role = "PARENT"
	RoleStudent Role = "STUDENT"
	RoleGuest   Role = "GUEST"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleParent, RoleStudent, RoleGuest}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent, RoleGuest:
		return true
	}
	return false
}

// ParseRole normalises raw into a Role; ok is false for unknown values.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(raw)))
	return r, r.Valid()
}

// Principal is the identity evaluated against the access policy.
type Principal struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             Role     `json:"role"`
	LinkedStudentIDs []string `json:"linked_student_ids,omitempty"`
	// Grades of the linked students, resolved per request from the student repository.
	Grades []string `json:"grades,omitempty"`
}

// Guest is the principal used when no session is present.
var Guest = Principal{Role: RoleGuest}

// IsGuest reports whether p carries no authenticated session.
func (p *Principal) IsGuest() bool {
	return p == nil || p.Role == RoleGuest || p.Role == ""
}

// OwnedStudentIDs returns the student IDs whose records p owns.
func (p *Principal) OwnedStudentIDs() []string {
	if p == nil {
		return nil
	}
	switch p.Role {
	case RoleParent:
		return p.LinkedStudentIDs
	case RoleStudent:
		if len(p.LinkedStudentIDs) > 0 {
			return p.LinkedStudentIDs
		}
		if p.ID != "" {
			return []string{p.ID}
		}
	}
	return nil
}

// Owns reports whether studentID is one of the principal's owned students.
func (p *Principal) Owns(studentID string) bool {
	if studentID == "" {
		return false
	}
	for _, id := range p.OwnedStudentIDs() {
		if id == studentID {
			return true
		}
	}
	return false
}
