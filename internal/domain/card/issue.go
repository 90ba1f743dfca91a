package card

import (
	"crypto/rand"
	"fmt"
	"time"

	"cardapp-backend/internal/domain/application"
	"cardapp-backend/pkg/id"
)

// Network-identifying first digit of the card number.
var networkPrefix = map[application.CardType]byte{
	application.CardVisa:   '4',
	application.CardMaster: '5',
	application.CardRupay:  '6',
}

// Issue builds a new ACTIVE card for a dispatched application: random
// Luhn-valid 16-digit number, 3-digit CVV, 5-year expiry, PIN not set.
func Issue(applicationNumber string, network application.CardType, creditLimit int, now time.Time) *CreditCard {
	expiry := now.AddDate(5, 0, 0)
	return &CreditCard{
		CardID:            id.NewID32(),
		ApplicationNumber: applicationNumber,
		CardNumber:        newCardNumber(networkPrefix[network]),
		Network:           network,
		CreditLimit:       creditLimit,
		ExpiryMonth:       int(expiry.Month()),
		ExpiryYear:        expiry.Year(),
		CVV:               fmt.Sprintf("%03d", randDigits(3)),
		Status:            StatusActive,
		PinStatus:         PinNotSet,
		PinAttemptsLeft:   3,
		IssuedAt:          now,
	}
}

func newCardNumber(prefix byte) string {
	digits := make([]byte, 16)
	digits[0] = prefix
	b := make([]byte, 14)
	_, _ = rand.Read(b)
	for i, v := range b {
		digits[i+1] = '0' + v%10
	}
	digits[15] = luhnCheckDigit(digits[:15])
	return string(digits)
}

func randDigits(n int) int {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	v := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	max := 1
	for i := 0; i < n; i++ {
		max *= 10
	}
	return v % max
}

// luhnCheckDigit computes the digit that makes digits+check pass Luhn.
func luhnCheckDigit(digits []byte) byte {
	sum := 0
	// rightmost payload digit gets doubled when the check digit is appended
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		double = !double
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

// LuhnValid reports whether a full card number passes the Luhn checksum.
func LuhnValid(number string) bool {
	if len(number) < 2 {
		return false
	}
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		double = !double
		sum += d
	}
	return sum%10 == 0
}
