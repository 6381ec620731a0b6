package dto

// WebsiteRequest is the payload accepted by the extract and dig endpoints.
type WebsiteRequest struct {
	Website string `json:"website"`
}
