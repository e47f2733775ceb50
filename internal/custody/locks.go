package custody

import (
	"strconv"
	"sync"

	"github.com/spaolacci/murmur3"
)

const lockStripes = 64

// userLocks serializes operations per user without keeping a mutex per user
// id. Ids are hashed onto a fixed set of stripes; two users sharing a stripe
// merely queue behind each other, which is harmless.
type userLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *userLocks) forUser(userID int64) *sync.Mutex {
	h := murmur3.Sum64([]byte(strconv.FormatInt(userID, 10)))
	return &l.stripes[h%lockStripes]
}
