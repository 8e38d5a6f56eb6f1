package model

import "time"

// Permission actions. These are the only valid members of a permission's
// action set.
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var PermissionActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

func IsValidAction(action string) bool {
	for _, a := range PermissionActions {
		if a == action {
			return true
		}
	}
	return false
}

// Permission is one document per resource name; Actions holds the full set
// of verbs any role granted this permission may perform on the resource.
type Permission struct {
	ID        string    `json:"id"`
	Resource  string    `json:"resource"`
	Actions   []string  `json:"actions"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Permission) HasAction(action string) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// AddAction appends the action if absent; adding a present action is a no-op.
func (p *Permission) AddAction(action string) bool {
	if p.HasAction(action) {
		return false
	}
	p.Actions = append(p.Actions, action)
	return true
}

// RemoveAction drops the action if present; removing an absent action is a no-op.
func (p *Permission) RemoveAction(action string) bool {
	for i, a := range p.Actions {
		if a == action {
			p.Actions = append(p.Actions[:i], p.Actions[i+1:]...)
			return true
		}
	}
	return false
}
