package signer

// Signer is a person registered on an account who can be asked to sign.
type Signer struct {
	Resource string `json:"resource,omitempty"`
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// CreateRequest registers a new signer on an account.
type CreateRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateRequest changes an existing signer. Empty fields are left untouched.
// The platform refuses updates to signers bound to an active document.
type UpdateRequest struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}
