package domain

// ChangeField identifies the task field group a change descriptor refers to.
type ChangeField string

const (
	FieldTitle       ChangeField = "title"
	FieldDescription ChangeField = "description"
	FieldPriority    ChangeField = "priority"
	FieldDueDate     ChangeField = "due_date"
	FieldAssignment  ChangeField = "assignment"
	FieldCompletion  ChangeField = "completion"
)

// FieldChange is a single computed "field X changed" descriptor produced by
// the diff engine, before persistence.
type FieldChange struct {
	Field   ChangeField
	Type    ActivityType
	Summary string
	Details string
}
