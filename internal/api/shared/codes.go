package shared

// Response codes carried in the "code" field of every envelope. Success
// responses use the HTTP status as their code.
const (
	CodeInvalidCredentials = "40001"
	CodeMalformedBody      = "40002"
	CodeNotAuthenticated   = "40003"
	CodeNotFound           = "40004"
	CodeValidationFailed   = "40005"
	CodeDuplicate          = "40006"
	CodeInvalidRequest     = "40007"
	CodeInvalidToken       = "40009"
	CodeExpiredToken       = "40010"
	CodeInternal           = "50000"
)
