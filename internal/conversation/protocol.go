package conversation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewProtocol generates a short human-readable ticket code like RS-202508-4217.
// Display-only reference: collisions are possible and tolerated.
func NewProtocol() string {
	now := time.Now()
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("RS-%d%02d-%d", now.Year(), int(now.Month()), n.Int64()+1000)
}
