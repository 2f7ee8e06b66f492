package policy

import (
	"github.com/noah-isme/edusphere-api/internal/models"
)

// Record is anything the evaluator can filter by ownership or grade.
type Record interface {
	OwnerStudentID() string
	GradeLevel() string
}

// RecordKind selects the visibility rules applied to a collection.
type RecordKind string

const (
	KindStudent    RecordKind = "student"
	KindFee        RecordKind = "fee"
	KindSchedule   RecordKind = "schedule"
	KindAssignment RecordKind = "assignment"
	KindSubmission RecordKind = "submission"
	KindTeacher    RecordKind = "teacher"
	KindSMS        RecordKind = "sms"
	KindAttendance RecordKind = "attendance"
)

type visibility int

const (
	seeNone visibility = iota
	seeAll
	// seeClass is every record for unscoped teachers and only the assigned grades otherwise.
	seeClass
	// seeOwned keeps records whose owning student belongs to the principal.
	seeOwned
	// seeGrade keeps records of the grades the principal's students are in.
	seeGrade
)

// visibilityTable declares, per kind, what each role sees. Absent pairs see nothing.
var visibilityTable = map[RecordKind]map[models.Role]visibility{
	KindStudent:    {admin: seeAll, teacher: seeClass, parent: seeOwned, student: seeOwned},
	KindFee:        {admin: seeAll, teacher: seeClass, parent: seeOwned, student: seeOwned},
	KindSchedule:   {admin: seeAll, teacher: seeClass, parent: seeGrade, student: seeGrade},
	KindAssignment: {admin: seeAll, teacher: seeClass, parent: seeGrade, student: seeGrade},
	KindSubmission: {admin: seeAll, teacher: seeClass, parent: seeOwned, student: seeOwned},
	KindTeacher:    {admin: seeAll, teacher: seeClass},
	KindSMS:        {admin: seeAll, teacher: seeClass, parent: seeOwned},
	KindAttendance: {admin: seeAll, teacher: seeClass},
}

// FilterVisible returns the subset of records p may see, preserving order.
// The input is never modified and the result is always a fresh slice.
func FilterVisible[T Record](e *Evaluator, p *models.Principal, records []T, kind RecordKind) []T {
	out := make([]T, 0, len(records))
	rule := e.visibilityFor(p, kind)
	if rule == seeNone {
		return out
	}
	for _, rec := range records {
		if e.visible(rule, p, rec) {
			out = append(out, rec)
		}
	}
	return out
}

// CanSee reports whether p may see a single record of kind.
func CanSee[T Record](e *Evaluator, p *models.Principal, record T, kind RecordKind) bool {
	rule := e.visibilityFor(p, kind)
	if rule == seeNone {
		return false
	}
	return e.visible(rule, p, record)
}

// AuthorizeRecord classifies a single-record read: Unauthenticated for guests,
// Forbidden when the record lies outside the principal's view.
func AuthorizeRecord[T Record](e *Evaluator, p *models.Principal, record T, kind RecordKind) Decision {
	if p.IsGuest() {
		return Unauthenticated
	}
	if CanSee(e, p, record, kind) {
		return Allowed
	}
	return Forbidden
}

func (e *Evaluator) visibilityFor(p *models.Principal, kind RecordKind) visibility {
	if p.IsGuest() {
		return seeNone
	}
	byRole, ok := visibilityTable[kind]
	if !ok {
		return seeNone
	}
	return byRole[p.Role]
}

func (e *Evaluator) visible(rule visibility, p *models.Principal, rec Record) bool {
	switch rule {
	case seeAll:
		return true
	case seeClass:
		scope, scoped := e.teacherScopes[p.ID]
		if !scoped {
			return true
		}
		grade, ok := e.gradeOf(rec)
		if !ok {
			// Records tied to no student and no grade, like the teacher directory.
			return rec.OwnerStudentID() == ""
		}
		_, in := scope[grade]
		return in
	case seeOwned:
		return p.Owns(rec.OwnerStudentID())
	case seeGrade:
		grade := rec.GradeLevel()
		if grade == "" {
			return false
		}
		for _, g := range p.Grades {
			if g == grade {
				return true
			}
		}
	}
	return false
}

// gradeOf returns the record's grade, falling back to its owning student's.
func (e *Evaluator) gradeOf(rec Record) (string, bool) {
	if grade := rec.GradeLevel(); grade != "" {
		return grade, true
	}
	owner := rec.OwnerStudentID()
	if owner == "" || e.studentGrade == nil {
		return "", false
	}
	grade, ok := e.studentGrade(owner)
	return grade, ok && grade != ""
}
