package middleware

import (
	"crypto/rand"
	"strings"

	"github.com/siherrmann/dataManager/helper"
)

type Middleware struct {
	csrfKey        []byte
	secure         bool
	trustedOrigins []string
}

// NewMiddleware creates the middleware set with a random csrf key.
// DATA_MANAGER_CSRF_SECURE and DATA_MANAGER_TRUSTED_ORIGINS configure the csrf cookie.
func NewMiddleware() *Middleware {
	csrfKey := make([]byte, 32)
	n, err := rand.Read(csrfKey)
	if err != nil {
		panic(err)
	}
	if n != 32 {
		panic("unable to read 32 bytes for CSRF key")
	}

	origins := []string{}
	for _, origin := range strings.Split(helper.GetEnvOrDefault("DATA_MANAGER_TRUSTED_ORIGINS", "localhost:3000,127.0.0.1:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return &Middleware{
		csrfKey:        csrfKey,
		secure:         helper.GetEnvOrDefault("DATA_MANAGER_CSRF_SECURE", "false") == "true",
		trustedOrigins: origins,
	}
}
