package infra

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var requiredEnv = []string{
	"DATABASE_URL",
	"JWT_SECRET",
	"RAZORPAY_KEY_ID",
	"RAZORPAY_KEY_SECRET",
	"RAZORPAY_WEBHOOK_SECRET",
}

// LoadEnv reads .env when present and warns about missing required variables.
// Missing configuration does not halt startup; the affected surface fails at
// call time instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	var missing []string
	for _, key := range requiredEnv {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		log.Printf("Warning: Missing environment variables: %s", strings.Join(missing, ", "))
	}
}
