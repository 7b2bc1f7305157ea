package relay

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"

	"gblink/proto"
)

var (
	metaBucket    = []byte("meta")
	playersBucket = []byte("players")
	nextIDKey     = []byte("nextID")
)

// Store persists the relay's id counter and a last-seen registry, so ids
// stay unique across relay restarts and the status page can list past
// visitors.
type Store struct {
	db *bolt.DB
}

type SeenRecord struct {
	Name     string    `json:"name"`
	Addr     string    `json:"addr"`
	LastSeen time.Time `json:"lastSeen"`
}

func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(metaBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(playersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// NextID hands out the next player id, durably. Ids start at 1.
func (s *Store) NextID() (proto.PlayerID, error) {
	var id proto.PlayerID
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		var next uint32 = 1
		if v := b.Get(nextIDKey); len(v) == 4 {
			next = binary.BigEndian.Uint32(v)
		}
		id = proto.PlayerID(next)
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], next+1)
		return b.Put(nextIDKey, buf[:])
	})
	return id, err
}

// MarkSeen records when and from where a player was last connected.
func (s *Store) MarkSeen(id proto.PlayerID, name, addr string) error {
	rec, err := json.Marshal(SeenRecord{Name: name, Addr: addr, LastSeen: time.Now()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		var key [4]byte
		binary.BigEndian.PutUint32(key[:], uint32(id))
		return tx.Bucket(playersBucket).Put(key[:], rec)
	})
}
