// Package formation holds the fixed position-layout templates and the
// active position set derived from them.
package formation

// Position is one slot in a layout template.
type Position struct {
	Name   string
	Keeper bool
}

// Layout is a fixed position template for one game format.
type Layout struct {
	Size      int
	Positions []Position
}

// Supported game formats.
const (
	SizeFive   = 5
	SizeNine   = 9
	SizeEleven = 11
)

var layouts = map[int]Layout{
	SizeFive: {
		Size: SizeFive,
		Positions: []Position{
			{Name: "Keeper", Keeper: true},
			{Name: "Defense"},
			{Name: "Midfield Left"},
			{Name: "Midfield Right"},
			{Name: "Forward"},
		},
	},
	SizeNine: {
		Size: SizeNine,
		Positions: []Position{
			{Name: "Keeper", Keeper: true},
			{Name: "Defense Left"},
			{Name: "Defense Center"},
			{Name: "Defense Right"},
			{Name: "Midfield Left"},
			{Name: "Midfield Center"},
			{Name: "Midfield Right"},
			{Name: "Forward Left"},
			{Name: "Forward Right"},
		},
	},
	SizeEleven: {
		Size: SizeEleven,
		Positions: []Position{
			{Name: "Keeper", Keeper: true},
			{Name: "Defense Left"},
			{Name: "Defense Center Left"},
			{Name: "Defense Center Right"},
			{Name: "Defense Right"},
			{Name: "Midfield Left"},
			{Name: "Midfield Center"},
			{Name: "Midfield Right"},
			{Name: "Forward Left"},
			{Name: "Forward Center"},
			{Name: "Forward Right"},
		},
	},
}

// ForSize returns the layout template for a game format.
func ForSize(size int) (Layout, error) {
	l, ok := layouts[size]
	if !ok {
		return Layout{}, ErrUnsupportedSize
	}
	return l, nil
}

// PositionSet is the ordered list of active positions for a game. Indexes are
// assigned at setup time and stay stable until reconfiguration.
type PositionSet struct {
	names       []string
	keeperIndex int
}

// Select builds a PositionSet from the coach-selected subset of the layout,
// preserving the given order. An empty subset activates the full layout.
func (l Layout) Select(active []string) (PositionSet, error) {
	if len(active) == 0 {
		names := make([]string, len(l.Positions))
		keeper := -1
		for i, p := range l.Positions {
			names[i] = p.Name
			if p.Keeper {
				keeper = i
			}
		}
		return PositionSet{names: names, keeperIndex: keeper}, nil
	}

	known := make(map[string]Position, len(l.Positions))
	for _, p := range l.Positions {
		known[p.Name] = p
	}

	names := make([]string, 0, len(active))
	keeper := -1
	for _, name := range active {
		p, ok := known[name]
		if !ok {
			return PositionSet{}, ErrUnknownPosition
		}
		if p.Keeper {
			keeper = len(names)
		}
		names = append(names, name)
	}
	return PositionSet{names: names, keeperIndex: keeper}, nil
}

// NewPositionSet rebuilds a set from persisted names. keeperIndex may be -1
// when the keeper slot is not active.
func NewPositionSet(names []string, keeperIndex int) PositionSet {
	copied := make([]string, len(names))
	copy(copied, names)
	if keeperIndex < -1 || keeperIndex >= len(names) {
		keeperIndex = -1
	}
	return PositionSet{names: copied, keeperIndex: keeperIndex}
}

// Len returns the number of active positions.
func (s PositionSet) Len() int { return len(s.names) }

// Name returns the position name at index.
func (s PositionSet) Name(index int) string {
	if index < 0 || index >= len(s.names) {
		return ""
	}
	return s.names[index]
}

// Names returns a copy of the ordered position names.
func (s PositionSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Index resolves a position name to its stable index.
func (s PositionSet) Index(name string) (int, error) {
	for i, n := range s.names {
		if n == name {
			return i, nil
		}
	}
	return 0, ErrUnknownPosition
}

// KeeperIndex returns the index of the keeper slot, or -1 when none is active.
func (s PositionSet) KeeperIndex() int { return s.keeperIndex }

// IsKeeper reports whether index is the designated keeper slot.
func (s PositionSet) IsKeeper(index int) bool {
	return s.keeperIndex >= 0 && index == s.keeperIndex
}

// FieldCount returns the number of active positions excluding the keeper slot.
func (s PositionSet) FieldCount() int {
	if s.keeperIndex >= 0 {
		return len(s.names) - 1
	}
	return len(s.names)
}
