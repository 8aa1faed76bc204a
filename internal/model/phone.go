package model

// Phone is a number attached to a contact; its owner is the contact's user.
type Phone struct {
	ID        int    `json:"id"`
	Value     string `json:"value"`
	TypeID    int    `json:"type_id"`
	ContactID int    `json:"contact_id"`
}

// Type labels a phone (mobile, home, work, other). Seeded reference data.
type Type struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

type CreatePhoneRequest struct {
	Value     string `json:"value" binding:"required,notblank,max=50"`
	TypeID    int    `json:"type_id" binding:"required,gt=0"`
	ContactID int    `json:"contact_id" binding:"required,gt=0"`
}

// UpdatePhoneRequest is a partial update. contact_id is immutable and not accepted.
type UpdatePhoneRequest struct {
	Value  *string `json:"value,omitempty" binding:"omitnil,notblank,max=50"`
	TypeID *int    `json:"type_id,omitempty" binding:"omitnil,gt=0"`
}

// Changes returns the identifier plus the supplied fields.
func (r UpdatePhoneRequest) Changes(id int) map[string]any {
	out := map[string]any{"id": id}
	if r.Value != nil {
		out["value"] = *r.Value
	}
	if r.TypeID != nil {
		out["type_id"] = *r.TypeID
	}
	return out
}
