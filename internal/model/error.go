package model

// Response is the consistent JSON structure for all API responses: either
// {success:true, data} or {success:false, error:{code,message}}.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody carries the typed failure across the API boundary.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK wraps a payload in a success response.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail wraps a typed failure in an error response.
func Fail(err error) Response {
	return Response{
		Success: false,
		Error:   &ErrorBody{Code: ErrorCode(err), Message: err.Error()},
	}
}
