// Package orderid generates externally-visible merchant order identifiers.
// The id is a base36 millisecond timestamp joined with a random suffix; it is
// only probabilistically unique, so the orders table keeps a unique constraint
// and the repository regenerates on insert conflict.
package orderid

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const suffixLen = 6

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func New() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}

	return strings.ToUpper(ts + "-" + string(b))
}
