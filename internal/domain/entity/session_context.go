package entity

// SessionContext identifies the caller for the duration of one request. It
// is built by the session middleware from the bearer token and passed
// explicitly into every service call — there is no ambient "current user"
// lookup anywhere else in the codebase.
type SessionContext struct {
	Subject string
	Name    string
	Email   string
	Guest   bool
}
