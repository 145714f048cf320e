package idgen

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	pkgerrors "github.com/cleanfresh/laundry-backend/pkg/errors"
)

const (
	customerIDPrefix  = "CUST"
	orderNumberPrefix = "LAU"
	suffixAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	dayFormat         = "20060102"

	// MaxCustomerIDAttempts caps the collision retry loop. The two-letter
	// suffix space is 676 per phone tail, so repeated collisions past this
	// point mean the tail is effectively exhausted.
	MaxCustomerIDAttempts = 100
)

// CustomerIDCandidate derives a customer id from the phone number:
// CUST-<last four digits>-<two random uppercase letters>. Non-digit
// characters are stripped first; short numbers fall back to 0000. Callers
// own the uniqueness retry loop.
func CustomerIDCandidate(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	tail := digits.String()
	if len(tail) >= 4 {
		tail = tail[len(tail)-4:]
	} else {
		tail = "0000"
	}

	suffix := []byte{
		suffixAlphabet[rand.Intn(len(suffixAlphabet))],
		suffixAlphabet[rand.Intn(len(suffixAlphabet))],
	}
	return fmt.Sprintf("%s-%s-%s", customerIDPrefix, tail, suffix)
}

// FormatOrderNumber renders LAU-<YYYYMMDD>-<seq> with a four digit sequence.
func FormatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, day.Format(dayFormat), seq)
}

// NextOrderNumber allocates the next order number for the given day inside
// the caller's transaction. The per-day counter row is bumped atomically, so
// concurrent allocations never observe the same sequence.
func NextOrderNumber(ctx context.Context, tx *gorm.DB, day time.Time) (string, error) {
	if tx == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "order number allocation requires a transaction")
	}

	dayKey := day.Format(dayFormat)
	var seq int
	err := tx.WithContext(ctx).Raw(`
INSERT INTO order_counters (day, last_seq, updated_at)
VALUES (?, 1, CURRENT_TIMESTAMP)
ON CONFLICT (day) DO UPDATE
SET last_seq = order_counters.last_seq + 1, updated_at = CURRENT_TIMESTAMP
RETURNING last_seq`, dayKey).Scan(&seq).Error
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump order counter")
	}

	return FormatOrderNumber(day, seq), nil
}
