package assign

// Ledger tracks room and professor occupancy at real-date granularity.
// A resource occupies `(ISO date, time slot)` pairs; two instances may
// share a weekday and slot as long as their concrete dates differ.
type Ledger struct {
	rooms map[string]map[string]bool
	profs map[string]map[string]bool
}

func NewLedger() *Ledger {
	return &Ledger{
		rooms: map[string]map[string]bool{},
		profs: map[string]map[string]bool{},
	}
}

func occupancyKey(isoDate, slot string) string {
	return isoDate + "__" + slot
}

func (l *Ledger) RoomFree(room, isoDate, slot string) bool {
	return !l.rooms[room][occupancyKey(isoDate, slot)]
}

func (l *Ledger) OccupyRoom(room, isoDate, slot string) {
	if l.rooms[room] == nil {
		l.rooms[room] = map[string]bool{}
	}
	l.rooms[room][occupancyKey(isoDate, slot)] = true
}

func (l *Ledger) ProfessorFree(id, isoDate, slot string) bool {
	return !l.profs[id][occupancyKey(isoDate, slot)]
}

func (l *Ledger) OccupyProfessor(id, isoDate, slot string) {
	if l.profs[id] == nil {
		l.profs[id] = map[string]bool{}
	}
	l.profs[id][occupancyKey(isoDate, slot)] = true
}
