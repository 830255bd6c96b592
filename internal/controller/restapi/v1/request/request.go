package request

// SetAuthorisation is the PATCH /status/{id} body. Authorised is a pointer
// so a missing field is told apart from false.
type SetAuthorisation struct {
	Authorised *bool `json:"authorised" example:"true"`
}
