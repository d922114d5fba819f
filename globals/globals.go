package globals

import (
	"os"
)

var JwtSecret = []byte(jwtSecret())

func jwtSecret() string {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return s
	}
	return "oneclickplanner-secret"
}

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const SessionIDKey ContextKey = "sessionId"
