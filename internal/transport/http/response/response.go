package response

// Resp is the envelope for wrapped responses and every error.
type Resp struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Success: true, Data: data}
}

// Fail is the body of every failed request.
func Fail(msg string) Resp {
	return Resp{Success: false, Error: msg}
}
