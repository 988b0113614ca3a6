// Command tokengen mints an HS256 bearer token for a user id. It is an
// operator/development utility; production identity should come from the
// normal session issuer.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"server/internal/middleware"
)

func main() {
	var (
		userFlag   string
		localeFlag string
		ttlFlag    time.Duration
	)
	flag.StringVar(&userFlag, "user", "", "user ID to mint a token for")
	flag.StringVar(&localeFlag, "locale", "en", "locale claim")
	flag.DurationVar(&ttlFlag, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(1)
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	token, err := middleware.SignJWT(secret, middleware.TokenClaims{
		Sub:    userID,
		Locale: localeFlag,
		Exp:    time.Now().Add(ttlFlag).Unix(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
