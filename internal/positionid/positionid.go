// Package positionid encodes backgammon positions as compact keys and
// GNU Backgammon compatible position IDs.
//
// A Board is seen from the player on roll: side 1 is that player, side 0
// the opponent. Index 0-23 is the point at forward distance 1-24 in that
// side's own direction and index 24 is the side's bar. Borne-off checkers
// are implied by the missing count.
package positionid

import "errors"

const (
	// PositionIDLength is the length of a position ID string
	PositionIDLength = 14
	// BarIndex is the bar slot of each side
	BarIndex = 24
)

// Base64 alphabet used for position ID encoding
const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// ErrInvalidPositionID is returned when a position ID cannot be decoded
var ErrInvalidPositionID = errors.New("invalid position ID")

// Board is a perspective-relative checker count table: [side][index].
type Board [2][25]uint8

// PositionKey packs a board at 4 bits per slot. It is comparable and can be
// used as a map key.
type PositionKey struct {
	Data [7]uint32
}

// oldKey is the 80 bit run-length key the base64 ID is built from.
type oldKey struct {
	Data [10]uint8
}

// MakePositionKey packs board into a PositionKey.
func MakePositionKey(board Board) PositionKey {
	var key PositionKey
	for i := 0; i < 3; i++ {
		for k := 0; k < 8; k++ {
			j := i*8 + k
			key.Data[i] |= uint32(board[1][j]&0x0f) << (4 * k)
			key.Data[i+3] |= uint32(board[0][j]&0x0f) << (4 * k)
		}
	}
	key.Data[6] = uint32(board[0][BarIndex]&0x0f) | uint32(board[1][BarIndex]&0x0f)<<4
	return key
}

// addBits sets nBits consecutive bits of key starting at bitPos.
func addBits(key *oldKey, bitPos, nBits uint32) {
	k := bitPos / 8
	r := bitPos & 0x7
	b := ((uint32(1) << nBits) - 1) << r

	key.Data[k] |= uint8(b)
	if k < 8 {
		key.Data[k+1] |= uint8(b >> 8)
		key.Data[k+2] |= uint8(b >> 16)
	} else if k == 8 {
		key.Data[k+1] |= uint8(b >> 8)
	}
}

func makeOldKey(board Board) oldKey {
	var key oldKey
	var bitPos uint32
	for i := 0; i < 2; i++ {
		for j := 0; j < 25; j++ {
			nc := uint32(board[i][j])
			if nc > 0 {
				addBits(&key, bitPos, nc)
				bitPos += nc + 1
			} else {
				bitPos++
			}
		}
	}
	return key
}

func boardFromOldKey(key oldKey) Board {
	var board Board
	i, j := 0, 0
	for a := 0; a < 10; a++ {
		cur := key.Data[a]
		for k := 0; k < 8; k++ {
			if cur&0x1 != 0 {
				if i >= 2 || j >= 25 {
					return board
				}
				board[i][j]++
			} else {
				j++
				if j == 25 {
					i++
					j = 0
				}
			}
			cur >>= 1
		}
	}
	return board
}

// PositionID returns the 14 character base64 position ID of board.
func PositionID(board Board) string {
	key := makeOldKey(board)
	result := make([]byte, PositionIDLength)
	puch := key.Data[:]

	for i := 0; i < 3; i++ {
		result[i*4] = base64Chars[puch[0]>>2]
		result[i*4+1] = base64Chars[((puch[0]&0x03)<<4)|(puch[1]>>4)]
		result[i*4+2] = base64Chars[((puch[1]&0x0F)<<2)|(puch[2]>>6)]
		result[i*4+3] = base64Chars[puch[2]&0x3F]
		puch = puch[3:]
	}
	result[12] = base64Chars[puch[0]>>2]
	result[13] = base64Chars[(puch[0]&0x03)<<4]

	return string(result)
}

func base64Decode(ch byte) uint8 {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return ch - 'A'
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 26
	case ch >= '0' && ch <= '9':
		return ch - '0' + 52
	case ch == '+':
		return 62
	case ch == '/':
		return 63
	default:
		return 255
	}
}

// BoardFromPositionID decodes a position ID. Anything after the first 14
// characters (such as a ":matchID" suffix) is ignored.
func BoardFromPositionID(posID string) (Board, error) {
	if len(posID) < PositionIDLength {
		return Board{}, ErrInvalidPositionID
	}

	var ach [PositionIDLength]uint8
	for i := 0; i < PositionIDLength; i++ {
		ach[i] = base64Decode(posID[i])
		if ach[i] == 255 {
			return Board{}, ErrInvalidPositionID
		}
	}

	var key oldKey
	pch := ach[:]
	for i := 0; i < 3; i++ {
		key.Data[i*3] = (pch[0] << 2) | (pch[1] >> 4)
		key.Data[i*3+1] = (pch[1] << 4) | (pch[2] >> 2)
		key.Data[i*3+2] = (pch[2] << 6) | pch[3]
		pch = pch[4:]
	}
	key.Data[9] = (pch[0] << 2) | (pch[1] >> 4)

	board := boardFromOldKey(key)
	if !CheckPosition(board) {
		return board, ErrInvalidPositionID
	}
	return board, nil
}

// CheckPosition reports whether board is a legal position: at most 15
// checkers a side, no point shared by both sides, and not both sides on the
// bar against closed home boards.
func CheckPosition(board Board) bool {
	var ac [2]int
	for i := 0; i < 25; i++ {
		ac[0] += int(board[0][i])
		ac[1] += int(board[1][i])
		if ac[0] > 15 || ac[1] > 15 {
			return false
		}
	}

	// Index i for one side is index 23-i for the other.
	for i := 0; i < 24; i++ {
		if board[0][i] > 0 && board[1][23-i] > 0 {
			return false
		}
	}

	for i := 0; i < 6; i++ {
		if board[0][i] < 2 || board[1][i] < 2 {
			return true
		}
	}
	return board[0][BarIndex] == 0 || board[1][BarIndex] == 0
}
