package model

import "time"

// Contact is an address-book entry owned by exactly one user
type Contact struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	Phones    []Phone   `json:"phones"`
}

// CreateContactRequest creates a contact together with its phones
type CreateContactRequest struct {
	Name   string            `json:"name" binding:"required,notblank,max=255"`
	Email  *string           `json:"email" binding:"omitnil,emailorempty,max=255"`
	Avatar *string           `json:"avatar"`
	Phones []NewPhoneRequest `json:"phones" binding:"required,dive"`
}

// NewPhoneRequest is a phone nested in a contact creation; the contact is implicit.
type NewPhoneRequest struct {
	Value  string `json:"value" binding:"required,notblank,max=50"`
	TypeID int    `json:"type_id" binding:"required,gt=0"`
}

// UpdateContactRequest is a partial update; nil fields are left untouched.
// An empty email clears it.
type UpdateContactRequest struct {
	Name   *string `json:"name,omitempty" binding:"omitnil,notblank,max=255"`
	Email  *string `json:"email,omitempty" binding:"omitnil,emailorempty,max=255"`
	Avatar *string `json:"avatar,omitempty"`
}

// Changes returns the identifier plus the supplied fields, as echoed back to the client.
func (r UpdateContactRequest) Changes(id int) map[string]any {
	out := map[string]any{"id": id}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Email != nil {
		out["email"] = nullable(*r.Email)
	}
	if r.Avatar != nil {
		out["avatar"] = nullable(*r.Avatar)
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Nullable maps an empty optional string to NULL.
func Nullable(s *string) *string {
	if s == nil {
		return nil
	}
	return nullable(*s)
}
