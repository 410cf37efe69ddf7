package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix    = "user:"
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"

	// Sequence keys for auto-incrementing IDs
	UserSeqKey    = "seq:user"
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
)

// Keys are zero padded so Badger's lexicographic order matches ID order.
func userKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", UserKeyPrefix, id))
}

func postKey(userID, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d:%010d", PostKeyPrefix, userID, id))
}

func postPrefix(userID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", PostKeyPrefix, userID))
}

func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d:%010d", CommentKeyPrefix, postID, id))
}

func commentPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%010d:", CommentKeyPrefix, postID))
}

// trailingID returns the entity ID encoded after the last colon of a
// composite key.
func trailingID(key []byte) (int, bool) {
	s := string(key)
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return 0, false
	}
	id, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return 0, false
	}
	return id, true
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %q", seqKey)
			}
			id = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	if err := setSequence(txn, seqKey, int(id)); err != nil {
		return 0, err
	}
	return int(id), nil
}

// bumpSequence makes sure the next generated ID is greater than id. Seeding
// uses it when fixtures carry their own IDs.
func bumpSequence(txn *badger.Txn, seqKey string, id int) error {
	item, err := txn.Get([]byte(seqKey))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	if err == nil {
		var current uint64
		if err := item.Value(func(val []byte) error {
			if len(val) == 8 {
				current = binary.BigEndian.Uint64(val)
			}
			return nil
		}); err != nil {
			return err
		}
		if int(current) >= id {
			return nil
		}
	}
	return setSequence(txn, seqKey, id)
}

func setSequence(txn *badger.Txn, seqKey string, id int) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return txn.Set([]byte(seqKey), buf)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// findKey scans prefix for the key whose trailing ID equals id.
func findKey(txn *badger.Txn, prefix []byte, id int) ([]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := it.Item().Key()
		if keyID, ok := trailingID(key); ok && keyID == id {
			return it.Item().KeyCopy(nil), nil
		}
	}
	return nil, ErrNotFound
}
