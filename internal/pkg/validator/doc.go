// Package validator provides a small validation abstraction for settings
// structs.
//
// Callers depend on the Validator interface. The go-playground/validator v10
// implementation lives in this package and adds a "regexp" rule for fields
// holding RE2 patterns.
package validator
