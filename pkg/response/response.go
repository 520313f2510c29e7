package response

// Wire shapes for the public donation API. The field names are fixed by the
// existing web client, so keep them stable.

// ErrorBody carries a short human-readable error message.
type ErrorBody struct {
	Error string `json:"error"`
}

// SuccessBody is the constant acknowledgement payload used by the webhook
// and confirmation endpoints.
type SuccessBody struct {
	Success bool `json:"success"`
}

func Error(msg string) ErrorBody { return ErrorBody{Error: msg} }

func OK() SuccessBody { return SuccessBody{Success: true} }
