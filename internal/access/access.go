// Package access holds the one place that decides whether an actor may use a
// lesson-scoped capability. Callers load the facts, Decide applies the rules
// in a fixed order: role, existence, then ownership or roster, then link.
package access

import (
	"github.com/in-nis/matura-back/internal/apperr"
	"github.com/in-nis/matura-back/internal/models"
)

type Capability string

const (
	ViewLesson       Capability = "lesson:view"
	ManageLesson     Capability = "lesson:manage"
	WriteLessonNote  Capability = "lesson:note"
	ViewLessonTask   Capability = "lesson-task:view"
	SubmitLessonTask Capability = "lesson-task:submit"
)

// Facts describes the resource as seen by the actor.
type Facts struct {
	LessonExists    bool
	LessonTeacherID uint
	Enrolled        bool
	TaskLinked      bool
}

type Decision struct {
	Allowed bool
	Kind    apperr.Kind
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(kind apperr.Kind, reason string) Decision {
	return Decision{Kind: kind, Reason: reason}
}

// Err converts a denial into an application error, nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &apperr.Error{Kind: d.Kind, Message: d.Reason}
}

const (
	reasonNoLesson  = "Lekcja nie istnieje"
	reasonNoAccess  = "Brak dostępu do tej lekcji"
	reasonNoTask    = "Zadanie nie jest przypisane do tej lekcji"
	reasonNotPupil  = "Tylko uczeń ma dostęp do zadań lekcji"
	reasonWrongRole = "Brak uprawnień"
)

// Decide applies the rules for capability c. A missing lesson is always 404,
// whatever the capability, once the role check has passed.
func Decide(actor *models.User, f Facts, c Capability) Decision {
	if actor == nil {
		return deny(apperr.KindUnauthenticated, "Zaloguj się")
	}
	switch c {
	case ViewLesson:
		if !f.LessonExists {
			return deny(apperr.KindNotFound, reasonNoLesson)
		}
		if actor.IsStudent() {
			if !f.Enrolled {
				return deny(apperr.KindForbidden, reasonNoAccess)
			}
			return allow()
		}
		if f.LessonTeacherID != actor.ID {
			return deny(apperr.KindForbidden, reasonNoAccess)
		}
		return allow()

	case ManageLesson:
		if !f.LessonExists {
			return deny(apperr.KindNotFound, reasonNoLesson)
		}
		if f.LessonTeacherID != actor.ID {
			return deny(apperr.KindForbidden, reasonNoAccess)
		}
		return allow()

	case WriteLessonNote:
		if !f.LessonExists {
			return deny(apperr.KindNotFound, reasonNoLesson)
		}
		if !f.Enrolled {
			return deny(apperr.KindForbidden, reasonNoAccess)
		}
		return allow()

	case ViewLessonTask, SubmitLessonTask:
		if !actor.IsStudent() {
			return deny(apperr.KindForbidden, reasonNotPupil)
		}
		if !f.LessonExists {
			return deny(apperr.KindNotFound, reasonNoLesson)
		}
		if !f.Enrolled {
			return deny(apperr.KindForbidden, reasonNoAccess)
		}
		if !f.TaskLinked {
			return deny(apperr.KindNotFound, reasonNoTask)
		}
		return allow()
	}
	return deny(apperr.KindForbidden, reasonWrongRole)
}

// RoleAllowed reports whether the actor has exactly the expected role.
func RoleAllowed(actor *models.User, role models.Role) Decision {
	if actor == nil {
		return deny(apperr.KindUnauthenticated, "Zaloguj się")
	}
	if actor.Role != role {
		return deny(apperr.KindForbidden, reasonWrongRole)
	}
	return allow()
}
