package model

// Response is the uniform envelope used by most endpoints.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func NewResponse(status int, data any, msg string) Response {
	return Response{
		StatusCode: status,
		Data:       data,
		Message:    msg,
		Success:    status < 400,
	}
}

// BookPage is the flat list shape returned by GET /books/all.
type BookPage struct {
	Success    bool   `json:"success"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Count      int    `json:"count"`
	Books      []Book `json:"books"`
}
