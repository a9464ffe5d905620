package workspace

import "encoding/json"

// Workspace is an Assinafy account: the container for documents and signers.
type Workspace struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PrimaryColor    string   `json:"primary_color,omitempty"`
	SecondaryColor  string   `json:"secondary_color,omitempty"`
	IsDeleteAllowed bool     `json:"is_delete_allowed"`
	Roles           []string `json:"roles,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// CreateRequest creates a workspace. Colors are hex codes such as "#0055ff".
type CreateRequest struct {
	Name           string `json:"name" validate:"required"`
	PrimaryColor   string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color,omitempty" validate:"omitempty,hexcolor"`
}

// UpdateRequest changes a workspace. Nil fields are left untouched; the
// Clear flags reset a color to the platform default.
type UpdateRequest struct {
	Name                string  `json:"name,omitempty"`
	PrimaryColor        *string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor      *string `json:"secondary_color,omitempty" validate:"omitempty,hexcolor"`
	ClearPrimaryColor   bool    `json:"-"`
	ClearSecondaryColor bool    `json:"-"`
}

// MarshalJSON encodes cleared colors as explicit nulls.
func (u UpdateRequest) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 3)
	if u.Name != "" {
		m["name"] = u.Name
	}

	setColor := func(key string, v *string, clear bool) {
		switch {
		case clear:
			m[key] = nil
		case v != nil:
			m[key] = *v
		}
	}
	setColor("primary_color", u.PrimaryColor, u.ClearPrimaryColor)
	setColor("secondary_color", u.SecondaryColor, u.ClearSecondaryColor)

	return json.Marshal(m)
}
