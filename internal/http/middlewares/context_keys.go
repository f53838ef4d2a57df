package middlewares

// gin context keys shared between middlewares and handlers.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "session.userID"
	CtxUserName  = "session.userName"
)

// SessionCookieName is the cookie the login handler sets and the
// session middleware reads.
const SessionCookieName = "fintrack_session"
