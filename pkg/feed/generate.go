package feed

import (
	"encoding/binary"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/item"
)

var words = strings.Fields(`
	idea thread reply question answer because maybe also root branch
	leaf node think agree disagree source link quote note draft map
	mind force pull push loose tight cluster orbit drift settle`)

// Generate returns a random reply tree of n items with uuid ids, shuffled
// so that replies often arrive before their parents. The first item of the
// tree (before shuffling) is the only root. The same seed yields the same
// feed.
func Generate(n int, seed uint64) ([]item.Item, error) {
	if err := errors.ValidateCount("items", n, 1); err != nil {
		return nil, err
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	items := make([]item.Item, n)
	for i := range items {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "generate id")
		}
		it := item.Item{
			ID:      id.String(),
			Payload: map[string]any{"text": sentence(rng)},
		}
		if i == 0 {
			it.IsFirst = true
		} else {
			it.ReplyToID = items[parentIndex(rng, i)].ID
		}
		items[i] = it
	}

	rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
	return items, nil
}

// parentIndex favours recent items so the tree grows deep as well as wide.
func parentIndex(rng *rand.Rand, i int) int {
	if rng.IntN(3) == 0 {
		return rng.IntN(i)
	}
	return max(0, i-1-rng.IntN(min(i, 4)))
}

func sentence(rng *rand.Rand) string {
	n := 2 + rng.IntN(12)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.IntN(len(words))]
	}
	return strings.Join(parts, " ")
}
