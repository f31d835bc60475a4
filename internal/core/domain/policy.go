package domain

// Resource access policy for tasks: pure, total decision functions over the
// requester's role and subject and the task's ownership fields. Handlers and
// services call these instead of repeating role checks inline.

// SeesAllTasks reports whether the role's task listings are unscoped.
// Everyone else only sees tasks they created or are assigned to.
func SeesAllTasks(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// CanReadTask reports whether the requester may view the task.
func CanReadTask(role, subject string, t *Task) bool {
	if role == RoleAdmin || role == RoleManager {
		return true
	}
	return t.AssignedTo == subject || t.CreatedBy == subject
}

// CanUpdateTask reports whether the requester may modify the task.
// Assignees without any other claim to the task may not.
func CanUpdateTask(role, subject string, t *Task) bool {
	if role == RoleAdmin || role == RoleManager {
		return true
	}
	return t.CreatedBy == subject
}

// CanDeleteTask reports whether the requester may delete the task.
// Managers may update any task but deliberately may not delete tasks they
// did not create.
func CanDeleteTask(role, subject string, t *Task) bool {
	if role == RoleAdmin {
		return true
	}
	return t.CreatedBy == subject
}
