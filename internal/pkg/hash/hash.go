package hash

// Hasher derives and verifies password hash records.
type Hasher interface {
	// Hash returns the serialized record for password.
	Hash(password string) (string, error)
	// Verify reports whether password matches the serialized record.
	Verify(password, record string) (bool, error)
}

var _ Hasher = (*PBKDF2)(nil)
