package response

// Envelope is the JSON shape returned by middleware and a handful of
// handlers that predate the fres-based ones.
type Envelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func Success(code, message string, data any) Envelope {
	return Envelope{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func Error(code, message string, errs any) Envelope {
	return Envelope{
		Code:    code,
		Message: message,
		Errors:  errs,
	}
}
