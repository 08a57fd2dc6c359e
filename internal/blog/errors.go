package blog

// Code identifies the kind of a client-visible error. It is reported under
// "extensions.code" in the GraphQL response.
type Code string

const (
	CodeEmailTaken     Code = "EMAIL_TAKEN"
	CodeAuthorNotFound Code = "AUTHOR_NOT_FOUND"
	CodeNotImplemented Code = "NOT_IMPLEMENTED"
)

// Error is returned by mutation resolvers. graphql-go uses Error() as the
// message and Extensions() as the extensions map.
type Error struct {
	Code    Code
	Message string
}

var (
	ErrEmailTaken     = &Error{Code: CodeEmailTaken, Message: "email taken"}
	ErrAuthorNotFound = &Error{Code: CodeAuthorNotFound, Message: "user not found"}
	ErrNotImplemented = &Error{Code: CodeNotImplemented, Message: "createComment is not implemented"}
)

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": string(e.Code),
	}
}
