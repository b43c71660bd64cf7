package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewOrderID returns "HW-<base36 unix millis>-<6 hex digits>", uppercase.
// Two ids minted in the same millisecond collide with probability 1/2^24.
func NewOrderID(now time.Time) (string, error) {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}

	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "HW-" + ts + "-" + strings.ToUpper(hex.EncodeToString(b[:])), nil
}
