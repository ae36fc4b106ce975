package service

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator produces reminder ids.
type IDGenerator func() string

// shortIDLength base36 digits carry about 46 random bits.
const shortIDLength = 9

// ShortID returns a 9 character base36 id. Collisions are possible but
// negligible for a few hundred reminders; use UUID where that is not enough.
func ShortID() string {
	u := uuid.New()
	s := strconv.FormatUint(binary.BigEndian.Uint64(u[8:]), 36)
	if len(s) < shortIDLength {
		s = strings.Repeat("0", shortIDLength-len(s)) + s
	}
	return s[len(s)-shortIDLength:]
}

// UUID returns a random RFC 4122 UUID string.
func UUID() string {
	return uuid.NewString()
}
