package models

type AssignmentStatus string

const (
	// StatusUnassigned is never stored; it stands for a missing row.
	StatusUnassigned AssignmentStatus = "nieoddane"
	StatusTodo       AssignmentStatus = "do zrobienia"
	StatusSubmitted  AssignmentStatus = "oddane"
	StatusCorrect    AssignmentStatus = "zrobione"
	StatusIncorrect  AssignmentStatus = "błędne"
)

// Graded reports whether the status is a terminal auto-graded one.
func (s AssignmentStatus) Graded() bool {
	return s == StatusCorrect || s == StatusIncorrect
}

// TaskAssignment is the per-student work state of a task.
type TaskAssignment struct {
	UserID uint             `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TaskID uint             `gorm:"column:zadanie_id;primaryKey;autoIncrement:false" json:"zadanie_id"`
	Status AssignmentStatus `gorm:"size:30;not null" json:"status"`
	Answer *string          `gorm:"column:odpowiedz_usera;type:text" json:"odpowiedz_usera"`
}

func (TaskAssignment) TableName() string { return "zadania_user" }

// AssignmentState is what callers see for a (task, user) pair, whether or not
// a row exists.
type AssignmentState struct {
	Assigned bool             `json:"assigned"`
	Status   AssignmentStatus `json:"status"`
	Answer   *string          `json:"answer"`
}

// StateOf maps an optional assignment row to its state.
func StateOf(a *TaskAssignment) AssignmentState {
	if a == nil {
		return AssignmentState{Status: StatusUnassigned}
	}
	return AssignmentState{Assigned: true, Status: a.Status, Answer: a.Answer}
}
