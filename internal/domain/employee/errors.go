package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrNotOnTeam             = errors.New("employee is not on this manager's team")
	ErrManagerAccessRequired = errors.New("manager access required")
)
