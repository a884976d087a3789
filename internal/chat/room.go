package chat

import (
	"sort"
	"sync"

	"palaver/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// Rooms owns the room lifecycle: rooms are created on demand and deleted the
// moment their member set becomes empty, except for the permanent global
// room. Members are connection ids; usernames are resolved through the
// Resolve callback so a connection that vanished mid-listing is silently
// dropped.
type Rooms struct {
	mu      sync.RWMutex
	rooms   map[string]mapset.Set[string]
	resolve func(connID string) (string, bool)
}

type RoomsConfig struct {
	Resolve func(connID string) (string, bool)
}

func NewRooms(config RoomsConfig) *Rooms {
	r := &Rooms{
		rooms:   make(map[string]mapset.Set[string]),
		resolve: config.Resolve,
	}
	r.rooms[models.GlobalRoom] = mapset.NewSet[string]()

	return r
}

// EnsureRoom idempotently creates an empty room. It reports whether the room
// was newly created.
func (r *Rooms) EnsureRoom(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ensureLocked(name)
}

func (r *Rooms) ensureLocked(name string) bool {
	if _, ok := r.rooms[name]; ok {
		return false
	}
	r.rooms[name] = mapset.NewSet[string]()
	return true
}

// AddMember puts the connection into the room, creating the room if needed.
// It reports whether the room was newly created.
func (r *Rooms) AddMember(room, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := r.ensureLocked(room)
	r.rooms[room].Add(connID)

	return created
}

// RemoveMember takes the connection out of the room. If that leaves a
// non-global room empty, the room is deleted in the same step; the return
// value reports the deletion.
func (r *Rooms) RemoveMember(room, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return false
	}
	members.Remove(connID)

	if members.Cardinality() == 0 && room != models.GlobalRoom {
		delete(r.rooms, room)
		return true
	}

	return false
}

// ConnIDs returns the connection ids currently in the room.
func (r *Rooms) ConnIDs(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[room]
	if !ok {
		return nil
	}

	return members.ToSlice()
}

// Members resolves the room's connections to usernames, dropping any
// connection that no longer has a session.
func (r *Rooms) Members(room string) []string {
	r.mu.RLock()
	members, ok := r.rooms[room]
	if !ok {
		r.mu.RUnlock()
		return nil
	}
	ids := members.ToSlice()
	r.mu.RUnlock()

	users := lo.FilterMap(ids, func(connID string, _ int) (string, bool) {
		return r.resolve(connID)
	})
	sort.Strings(users)

	return users
}

// Names returns a sorted snapshot of all current room names.
func (r *Rooms) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.rooms)
	sort.Strings(names)

	return names
}

// Has reports whether the room currently exists.
func (r *Rooms) Has(room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[room]
	return ok
}
