// Package pgn reads and writes 5dpgn, the bracketed-tag move text used by
// most 5D chess tools.
package pgn

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/hailam/chessplay5d/internal/board"
	"github.com/hailam/chessplay5d/internal/notation"
)

var (
	superphysicalRe = regexp.MustCompile(`^\(\s*L?\s*([+-]?\d+)\s*T\s*(\d+)\s*\)`)
	annotationRe    = regexp.MustCompile(`^(?:\?!|!\?|\?+|!+)`)
	pieceRe         = regexp.MustCompile(`^(?:BR|CK|RQ|PR|[PKNRQDUBS])`)
	presentRe       = regexp.MustCompile(`^\(~T(\d+)\)`)
	timelineRe      = regexp.MustCompile(`^\(>L([+-]?\d+)\)`)
	turnRe          = regexp.MustCompile(`^(\d+)\s*\.`)
	resultRe        = regexp.MustCompile(`^(?:1/2-1/2|0-1|1-0)`)
	tagNameRe       = regexp.MustCompile(`^\[\s*(\w+)\s+"`)

	jumpRe        = regexp.MustCompile(`^([a-w])(\d+)(>>?)(x)?`)
	physicalRe    = regexp.MustCompile(`^([a-w])?(\d+)?(x)?([a-w])(\d+)`)
	squareRe      = regexp.MustCompile(`^([a-w])(\d+)`)
	castleRe      = regexp.MustCompile(`^[O0]-[O0](-[O0])?`)
	pawnCaptureRe = regexp.MustCompile(`^([a-w])x([a-w])(\d+)`)
	promotionRe   = regexp.MustCompile(`^=(PR|RQ|[NBRQDUS])?`)
)

// IsResult reports whether s is a game result such as "1-0".
func IsResult(s string) bool {
	return resultRe.MatchString(s)
}

// scanner walks the source text, remembering the offset for error messages.
type scanner struct {
	src string
	pos int
}

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) done() bool { return s.pos >= len(s.src) }

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && unicode.IsSpace(rune(s.src[s.pos])) {
		s.pos++
	}
}

// match consumes re at the current position and returns its submatches.
func (s *scanner) match(re *regexp.Regexp) []string {
	m := re.FindStringSubmatch(s.rest())
	if m != nil {
		s.pos += len(m[0])
	}
	return m
}

func (s *scanner) errorf(msg string) error {
	return notation.NewSyntaxError(s.pos, s.rest(), msg)
}

// Tokenize splits 5dpgn text into tokens.
func Tokenize(raw string) ([]notation.Token, error) {
	s := &scanner{src: raw}
	var tokens []notation.Token
	for {
		s.skipSpace()
		if s.done() {
			return tokens, nil
		}
		start := s.pos
		rest := s.rest()

		tok := notation.Token{Turn: board.Omitted, Present: board.Omitted}
		switch {
		case rest[0] == '[':
			name, value, err := s.tag()
			if err != nil {
				return nil, err
			}
			tok.Kind, tok.Name, tok.Value = notation.TagToken, name, value
		case turnRe.MatchString(rest):
			m := s.match(turnRe)
			n, _ := strconv.Atoi(m[1])
			tok.Kind, tok.Turn, tok.Color = notation.TurnToken, n-1, board.White
		case rest[0] == '/':
			s.pos++
			tok.Kind, tok.Color = notation.PlayerToken, board.Black
		case annotationRe.MatchString(rest):
			m := s.match(annotationRe)
			tok.Kind, tok.Value = notation.AnnotationToken, m[0]
		case rest[0] == '{':
			text, err := s.comment()
			if err != nil {
				return nil, err
			}
			tok.Kind, tok.Value = notation.CommentToken, text
		case resultRe.MatchString(rest):
			m := s.match(resultRe)
			tok.Kind, tok.Value = notation.ResultToken, m[0]
		case timelineRe.MatchString(rest):
			m := s.match(timelineRe)
			l, err := board.ParseTimelineIndex(m[1])
			if err != nil {
				return nil, s.errorf(err.Error())
			}
			tok.Kind, tok.L = notation.TimelineToken, l
		case presentRe.MatchString(rest):
			m := s.match(presentRe)
			n, _ := strconv.Atoi(m[1])
			tok.Kind, tok.Present = notation.PresentToken, n-1
		default:
			mi, err := s.move()
			if err != nil {
				return nil, err
			}
			tok.Kind, tok.Move = notation.MoveToken, mi
		}
		tok.Raw = s.src[start:s.pos]
		tokens = append(tokens, tok)
	}
}

// tag reads [Name "value"]. Quotes inside the value are escaped with a
// backslash.
func (s *scanner) tag() (name, value string, err error) {
	m := s.match(tagNameRe)
	if m == nil {
		return "", "", s.errorf("invalid tag")
	}
	var sb strings.Builder
	for {
		if s.done() {
			return "", "", s.errorf("unterminated tag value")
		}
		c := s.src[s.pos]
		s.pos++
		if c == '\\' && s.pos < len(s.src) {
			sb.WriteByte(s.src[s.pos])
			s.pos++
			continue
		}
		if c == '"' {
			break
		}
		sb.WriteByte(c)
	}
	end := strings.IndexByte(s.rest(), ']')
	if end < 0 {
		return "", "", s.errorf("unterminated tag")
	}
	s.pos += end + 1
	return m[1], sb.String(), nil
}

// comment reads {text}. A closing brace inside the text is escaped with a
// backslash.
func (s *scanner) comment() (string, error) {
	s.pos++
	var sb strings.Builder
	for {
		if s.done() {
			return "", s.errorf("unterminated comment")
		}
		c := s.src[s.pos]
		s.pos++
		if c == '\\' && s.pos < len(s.src) && s.src[s.pos] == '}' {
			sb.WriteByte('}')
			s.pos++
			continue
		}
		if c == '}' {
			return sb.String(), nil
		}
		sb.WriteByte(c)
	}
}

// ParseMove reads a single move.
func ParseMove(text string) (*notation.MoveIntent, error) {
	s := &scanner{src: strings.TrimSpace(text)}
	mi, err := s.move()
	if err != nil {
		return nil, err
	}
	if !s.done() {
		return nil, s.errorf("unexpected text after move")
	}
	return mi, nil
}

func (s *scanner) superphysical() (notation.Target, bool, error) {
	t := notation.Unset()
	m := s.match(superphysicalRe)
	if m == nil {
		return t, false, nil
	}
	l, err := board.ParseTimelineIndex(m[1])
	if err != nil {
		return t, false, s.errorf(err.Error())
	}
	n, _ := strconv.Atoi(m[2])
	t = t.Timeline(l)
	t.T = n - 1
	return t, true, nil
}

func square(file, rank string) (x, y int) {
	n, _ := strconv.Atoi(rank)
	return int(file[0] - 'a'), n - 1
}

// move reads one move: a castle, a pawn move, a physical piece move or a
// jump between boards. Omitted coordinates are left for the replayer.
func (s *scanner) move() (*notation.MoveIntent, error) {
	start := s.pos
	from, _, err := s.superphysical()
	if err != nil {
		return nil, err
	}

	var mi *notation.MoveIntent
	switch {
	case pieceRe.MatchString(s.rest()):
		letter := s.match(pieceRe)[0]
		kind, _ := board.KindFromLetter(letter)
		mi = notation.NewMoveIntent(kind)
		mi.From = from

		if m := s.match(jumpRe); m != nil {
			mi.Jump = true
			mi.Branch = m[3] == ">>"
			mi.Capture = m[4] != ""
			mi.From.X, mi.From.Y = square(m[1], m[2])

			to, ok, err := s.superphysical()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, s.errorf("expected super-physical coordinates after the jump operator")
			}
			sq := s.match(squareRe)
			if sq == nil {
				return nil, s.errorf("expected target square in a jump")
			}
			mi.To = to
			mi.To.X, mi.To.Y = square(sq[1], sq[2])
		} else if m := s.match(physicalRe); m != nil {
			if m[1] != "" {
				mi.From.X = int(m[1][0] - 'a')
			}
			if m[2] != "" {
				n, _ := strconv.Atoi(m[2])
				mi.From.Y = n - 1
			}
			mi.Capture = m[3] != ""
			mi.To.X, mi.To.Y = square(m[4], m[5])
		} else {
			return nil, s.errorf("unrecognized move")
		}

	case castleRe.MatchString(s.rest()):
		m := s.match(castleRe)
		mi = notation.NewMoveIntent(board.King)
		mi.From = from
		mi.Castle = true
		mi.Long = m[1] != ""

	default:
		mi = notation.NewMoveIntent(board.Pawn)
		mi.From = from
		if m := s.match(pawnCaptureRe); m != nil {
			mi.Capture = true
			mi.From.X = int(m[1][0] - 'a')
			mi.To.X, mi.To.Y = square(m[2], m[3])
		} else if m := s.match(squareRe); m != nil {
			mi.To.X, mi.To.Y = square(m[1], m[2])
			mi.From.X = mi.To.X
		} else {
			return nil, s.errorf("invalid pawn move or unknown piece")
		}
		if m := s.match(promotionRe); m != nil {
			mi.Promotion = board.Queen
			if m[1] != "" {
				mi.Promotion, _ = board.KindFromLetter(m[1])
			}
		}
	}

	s.marks(mi)
	mi.Raw = s.src[start:s.pos]
	return mi, nil
}

// marks reads the check, mate and present-shift suffixes.
func (s *scanner) marks(mi *notation.MoveIntent) {
	for !s.done() {
		switch s.src[s.pos] {
		case '+':
			mi.Check = true
		case '#':
			mi.Checkmate = true
		case '*':
			mi.Softmate = true
		case '~':
			mi.MovesPresent = true
		default:
			return
		}
		s.pos++
	}
}
