// Package gate implements the optional allow-list membership check for
// gated games. Membership is proven with a Merkle proof against a root
// configured at game creation, so the server never needs the full player
// list at run time.
package gate

import (
	"bytes"
	"sort"

	"lukechampine.com/blake3"
)

// Merkle verifies blake3 Merkle proofs against a fixed root.
type Merkle struct {
	root [32]byte
}

func NewMerkle(root [32]byte) *Merkle {
	return &Merkle{root: root}
}

// Verify folds the proof's sibling hashes over the player's leaf hash and
// compares the result with the root. Siblings are combined in sorted order,
// so proofs carry no left/right flags.
func (m *Merkle) Verify(player string, proof [][]byte) bool {
	node := leafHash(player)
	for _, sibling := range proof {
		if len(sibling) != 32 {
			return false
		}
		var s [32]byte
		copy(s[:], sibling)
		node = parentHash(node, s)
	}
	return node == m.root
}

func leafHash(player string) [32]byte {
	return blake3.Sum256([]byte(player))
}

func parentHash(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return blake3.Sum256(buf)
}

// Tree is a fully built allow-list tree, used by juntactl and tests to
// produce the root and the per-player proofs handed out to players.
type Tree struct {
	Root   [32]byte
	proofs map[string][][]byte
}

// BuildTree constructs a tree over the given players. Duplicates are
// collapsed; the list is sorted so the root is deterministic.
func BuildTree(players []string) *Tree {
	uniq := make([]string, 0, len(players))
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if !seen[p] {
			seen[p] = true
			uniq = append(uniq, p)
		}
	}
	sort.Strings(uniq)

	level := make([][32]byte, len(uniq))
	proofs := make(map[string][][]byte, len(uniq))
	// index of each player's node in the current level
	pos := make(map[string]int, len(uniq))
	for i, p := range uniq {
		level[i] = leafHash(p)
		proofs[p] = nil
		pos[p] = i
	}

	for len(level) > 1 {
		next := make([][32]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				// Odd node is promoted unchanged.
				next = append(next, level[i])
				continue
			}
			next = append(next, parentHash(level[i], level[i+1]))
		}
		for p, i := range pos {
			sib := i ^ 1
			if sib < len(level) {
				s := level[sib]
				proofs[p] = append(proofs[p], append([]byte(nil), s[:]...))
			}
			pos[p] = i / 2
		}
		level = next
	}

	t := &Tree{proofs: proofs}
	if len(level) == 1 {
		t.Root = level[0]
	}
	return t
}

// Proof returns the sibling path for a player, or nil if the player is not
// in the tree.
func (t *Tree) Proof(player string) [][]byte {
	return t.proofs[player]
}
