package models

// User is a credential-file entry, loaded at startup and immutable at runtime.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"password_hash"`
	Persona      Persona `json:"persona"`
}
