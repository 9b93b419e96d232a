package room

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
)

// RoomStore is the process-wide room registry: created on first join,
// torn down on last leave. The registry is the only state shared across
// tables, so a plain lock is enough; table mutation never happens under
// it.
type RoomStore struct {
	imp  *treemap.Map // room id -> *Room
	lock sync.RWMutex
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		imp: treemap.NewWithStringComparator(),
	}
}

func (s *RoomStore) Find(roomId string) *Room {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if v, found := s.imp.Get(roomId); found {
		return v.(*Room)
	}
	return nil
}

func (s *RoomStore) GetOrCreate(roomId string, create func(roomId string) *Room) *Room {
	s.lock.Lock()
	defer s.lock.Unlock()
	if v, found := s.imp.Get(roomId); found {
		return v.(*Room)
	}
	r := create(roomId)
	s.imp.Put(roomId, r)
	return r
}

// Remove drops and closes the room if it is still the registered one.
func (s *RoomStore) Remove(roomId string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if v, found := s.imp.Get(roomId); found {
		s.imp.Remove(roomId)
		v.(*Room).Close()
	}
}

func (s *RoomStore) Size() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.imp.Size()
}

// RoomIds lists the registered rooms in id order.
func (s *RoomStore) RoomIds() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	ret := make([]string, 0, s.imp.Size())
	s.imp.Each(func(key, _ interface{}) {
		ret = append(ret, key.(string))
	})
	return ret
}
