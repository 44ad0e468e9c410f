package tetris

import "math/rand"

// Bag is the 7-bag randomizer. Every aligned run of seven draws is a
// permutation of all piece types.
type Bag struct {
	rng   *rand.Rand
	queue []PieceType
}

// NewBag creates a bag drawing from rng. The bag starts empty and is
// filled on the first draw.
func NewBag(rng *rand.Rand) *Bag {
	return &Bag{rng: rng}
}

// Next pops the front of the bag, refilling it with a fresh shuffle first
// if it is exhausted.
func (b *Bag) Next() PieceType {
	if len(b.queue) == 0 {
		b.refill()
	}
	t := b.queue[0]
	b.queue = b.queue[1:]
	return t
}

// Remaining returns a copy of the types left in the current bag.
func (b *Bag) Remaining() []PieceType {
	out := make([]PieceType, len(b.queue))
	copy(out, b.queue)
	return out
}

// refill shuffles a full set of types with Fisher-Yates.
func (b *Bag) refill() {
	bag := AllPieces
	for i := len(bag) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	b.queue = bag[:]
}
