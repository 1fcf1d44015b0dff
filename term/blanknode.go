package term

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewFreshBlankNode generates a blank node with a unique 64-bit hex
// identifier. It never collides with a caller-supplied identifier in
// practice, but blank-node identity is still by-value: two freshly
// generated nodes are distinct because their random identifiers differ,
// not because of any hidden provenance tracking.
func NewFreshBlankNode() BlankNode {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Without crypto/rand there is no way to produce unique ids.
		panic(fmt.Sprintf("term: failed to generate blank node id: %v", err))
	}
	return BlankNode{ID: hex.EncodeToString(buf[:])}
}
