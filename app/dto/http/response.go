package http

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type IsAuthenticatedResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
