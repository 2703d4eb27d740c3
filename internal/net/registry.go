package net

// Room is a relay-side group of connections sharing match signals.
type Room struct {
	ID      string
	members []string        // connection IDs in join order
	roles   map[string]Role // role assigned at first join
	seed    string
}

// RoleOf returns the role a member was assigned when it joined.
func (r *Room) RoleOf(connID string) (Role, bool) {
	role, ok := r.roles[connID]
	return role, ok
}

// Members returns the connection IDs in join order.
func (r *Room) Members() []string {
	return append([]string(nil), r.members...)
}

// Seed returns the last start_match seed, or "" before the first match.
func (r *Room) Seed() string {
	return r.seed
}

func (r *Room) indexOf(connID string) int {
	for i, m := range r.members {
		if m == connID {
			return i
		}
	}
	return -1
}

// Registry owns room creation and destruction. It is not safe for
// concurrent use; the relay loop is its only caller.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Get returns the room with the given ID.
func (r *Registry) Get(roomID string) (*Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// Len returns the number of live rooms.
func (r *Registry) Len() int {
	return len(r.rooms)
}

// Join adds a connection to a room, creating the room on first use. The role
// is chosen from the member count before the connection is added. Joining a
// room twice keeps a single membership, the original position and the
// original role, even after earlier members have left.
func (r *Registry) Join(roomID, connID string) (*Room, Role) {
	room, ok := r.rooms[roomID]
	if !ok {
		room = &Room{ID: roomID, roles: make(map[string]Role)}
		r.rooms[roomID] = room
	}
	if role, ok := room.roles[connID]; ok {
		return room, role
	}
	role := RoleFor(len(room.members))
	room.members = append(room.members, connID)
	room.roles[connID] = role
	return room, role
}

// Leave removes a connection from a room and destroys the room once it is
// empty. It returns the remaining member count.
func (r *Registry) Leave(roomID, connID string) (remaining int, destroyed bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return 0, false
	}
	if i := room.indexOf(connID); i >= 0 {
		room.members = append(room.members[:i], room.members[i+1:]...)
	}
	delete(room.roles, connID)
	if len(room.members) == 0 {
		delete(r.rooms, roomID)
		return 0, true
	}
	return len(room.members), false
}

// SetSeed records the current match seed for late joiners.
func (r *Registry) SetSeed(roomID, seed string) bool {
	room, ok := r.rooms[roomID]
	if !ok {
		return false
	}
	room.seed = seed
	return true
}

// Members returns the connection IDs of a room, or nil if it does not exist.
func (r *Registry) Members(roomID string) []string {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return room.Members()
}
