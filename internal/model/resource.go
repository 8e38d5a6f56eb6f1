package model

// ResourceEntry ties a router mount point to the resource name permission
// checks are made against.
type ResourceEntry struct {
	Mount string `json:"mount"`
	Name  string `json:"name"`
}

// ResourceRegistry is the static table of everything the API exposes.
// The router mounts from it, the authorizer resolves against it, and the
// super admin seed grants one permission per entry.
var ResourceRegistry = []ResourceEntry{
	{Mount: "/users", Name: "user"},
	{Mount: "/roles", Name: "role"},
	{Mount: "/permissions", Name: "permission"},
	{Mount: "/role-permissions", Name: "role-permission"},
	{Mount: "/employees", Name: "employee"},
	{Mount: "/resources", Name: "resource"},
}

// ResourceForMount returns the resource name registered for a mount point.
func ResourceForMount(mount string) (string, bool) {
	for _, entry := range ResourceRegistry {
		if entry.Mount == mount {
			return entry.Name, true
		}
	}
	return "", false
}
