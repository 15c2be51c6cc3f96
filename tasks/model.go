package tasks

// DefaultComplexity is assigned when a task is created without a complexity.
const DefaultComplexity = "medium"

// Task is one unit of work tracked by the service.
type Task struct {
	// Assigned by the store on creation, never reassigned
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Free-text tag, no enforced enumeration
	Complexity string `json:"complexity"`
}

// Fields is a partial task record. A nil field was absent from the request.
//
// It serves as the create input (Name and Description required) and as the
// update patch (only present fields are written).
type Fields struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Complexity  *string `json:"complexity,omitempty"`
}

// Missing returns the first required create field that is absent, or "".
func (f Fields) Missing() string {
	switch {
	case f.Name == nil:
		return "name"
	case f.Description == nil:
		return "description"
	default:
		return ""
	}
}

// Empty reports whether no field is present.
func (f Fields) Empty() bool {
	return f.Name == nil && f.Description == nil && f.Complexity == nil
}

// Apply merges the present fields into the task. ID is never touched.
func (t *Task) Apply(f Fields) {
	if f.Name != nil {
		t.Name = *f.Name
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Complexity != nil {
		t.Complexity = *f.Complexity
	}
}

// NewTask builds a task from create input, defaulting the complexity.
// The caller is expected to have checked Missing.
func NewTask(id int, f Fields) Task {
	t := Task{ID: id, Complexity: DefaultComplexity}
	t.Apply(f)
	return t
}
