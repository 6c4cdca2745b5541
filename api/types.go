package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler     authHandler
	roleHandler     roleHandler
	projectHandler  projectHandler
	activityHandler activityHandler
	contentHandler  contentHandler
	uploadHandler   uploadHandler
	importHandler   importHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// EnvelopeResponse is the {success, data, error} shape used by the manage
// endpoints.
type EnvelopeResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
