package policies

// CreatePolicyRequest represents the request to create a refund policy
type CreatePolicyRequest struct {
	Name  string       `json:"name" validate:"required,min=2,max=100"`
	Rules []RefundRule `json:"rules" validate:"required,min=1,dive"`
}

// UpdatePolicyRequest represents the request to update a refund policy
type UpdatePolicyRequest struct {
	Name  *string      `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Rules []RefundRule `json:"rules,omitempty" validate:"omitempty,min=1,dive"`
}
