package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateConfirmationCode builds a display code of the form
// NST-<last 6 digits of epoch millis>-<4-digit random>. Codes are not
// checked for collisions; they identify a booking to a human, not to the
// database.
func GenerateConfirmationCode() string {
	millis := time.Now().UnixMilli()
	return fmt.Sprintf("NST-%06d-%04d", millis%1000000, rand.Intn(10000))
}
