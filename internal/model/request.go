package model

// Auth requests

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	RoleID   string `json:"role_id" validate:"required,uuid4"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,password"`
}

// Role requests

type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Description string `json:"description" validate:"max=255"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=50"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// Permission requests

type CreatePermissionRequest struct {
	Resource string   `json:"resource" validate:"required,min=3,max=50"`
	Actions  []string `json:"actions" validate:"required,min=1,unique,dive,oneof=read create update delete"`
}

type UpdatePermissionRequest struct {
	Resource *string  `json:"resource" validate:"omitempty,min=3,max=50"`
	Actions  []string `json:"actions" validate:"omitempty,min=1,unique,dive,oneof=read create update delete"`
}

type PermissionActionRequest struct {
	Action string `json:"action" validate:"required,oneof=read create update delete"`
}

// RolePermission requests

type CreateRolePermissionRequest struct {
	RoleID       string `json:"role_id" validate:"required,uuid4"`
	PermissionID string `json:"permission_id" validate:"required,uuid4"`
}

type UpdateRolePermissionRequest struct {
	RoleID       *string `json:"role_id" validate:"omitempty,uuid4"`
	PermissionID *string `json:"permission_id" validate:"omitempty,uuid4"`
}

// User requests

type CreateUserRequest struct {
	Name       string  `json:"name" validate:"required,min=2,max=100"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8,password"`
	RoleID     string  `json:"role_id" validate:"required,uuid4"`
	Status     string  `json:"status" validate:"omitempty,oneof=Active Inactive Suspended OnLeave Pending"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,uuid4"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Password   *string `json:"password" validate:"omitempty,min=8,password"`
	RoleID     *string `json:"role_id" validate:"omitempty,uuid4"`
	Status     *string `json:"status" validate:"omitempty,oneof=Active Inactive Suspended OnLeave Pending"`
	EmployeeID *string `json:"employee_id" validate:"omitempty,uuid4"`
}

// Employee requests

type CreateEmployeeRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"required,min=1,max=100"`
	Position   string `json:"position" validate:"max=100"`
	Department string `json:"department" validate:"max=100"`
}

type UpdateEmployeeRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
}
