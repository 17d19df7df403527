package httputil

// Response wraps every API payload: { "data": ... }
type Response[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Meta is the pagination block of a list response
type Meta struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Pages    int `json:"pages"`
	Total    int `json:"total"`
}

// PageData is the inner object of a list response: { "data": [...], "meta": {...} }
type PageData[T any] struct {
	Data []T  `json:"data"`
	Meta *Meta `json:"meta"`
}

// ErrorBody is what the API sends on non-2xx responses
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Text picks the most specific message the server supplied
func (e ErrorBody) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
