package ports

// PasswordHasher is a one-way adaptive hash with a per-call salt.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify compares in constant time and reports whether plain matches hash.
	Verify(plain, hash string) bool
}
