package board

// Timeline is one branch of the multiverse: an append-only run of boards
// covering consecutive plies starting at BeginsAt.
type Timeline struct {
	Index    TimelineIndex
	BeginsAt int
	// SpawnedFrom names the timeline this one branched off. It is nil for
	// the timelines a game starts with.
	SpawnedFrom *TimelineIndex

	boards []*Board
	moves  []SubMove
}

func newTimeline(idx TimelineIndex, beginsAt int, parent *TimelineIndex, first *Board) *Timeline {
	return &Timeline{
		Index:       idx,
		BeginsAt:    beginsAt,
		SpawnedFrom: parent,
		boards:      []*Board{first},
	}
}

// Synthetic reports whether the timeline was created by a move.
func (tl *Timeline) Synthetic() bool {
	return tl.SpawnedFrom != nil
}

// Len returns the number of boards on the timeline.
func (tl *Timeline) Len() int {
	return len(tl.boards)
}

// Board returns the board at ply, or nil if the timeline has none there.
func (tl *Timeline) Board(ply int) *Board {
	i := ply - tl.BeginsAt
	if i < 0 || i >= len(tl.boards) {
		return nil
	}
	return tl.boards[i]
}

// LastPly returns the ply of the newest board.
func (tl *Timeline) LastPly() int {
	return tl.BeginsAt + len(tl.boards) - 1
}

// Present returns the newest board.
func (tl *Timeline) Present() *Board {
	return tl.boards[len(tl.boards)-1]
}

// ActiveColor returns the color to move on the newest board.
func (tl *Timeline) ActiveColor() Color {
	return ColorOfPly(tl.LastPly())
}

// Moves returns the timeline's move log. The slice must not be modified.
func (tl *Timeline) Moves() []SubMove {
	return tl.moves
}

func (tl *Timeline) push(b *Board) {
	tl.boards = append(tl.boards, b)
}

func (tl *Timeline) record(m SubMove) {
	tl.moves = append(tl.moves, m)
}
