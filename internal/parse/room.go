package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	// "101", "1203", "A 204", "E310"
	compactRe = regexp.MustCompile(`^(?i)[a-z]*\s*(\d{3,4})$`)
	// "3-12", "3F-12", "E3-1", "West 5-12"
	dashedRe = regexp.MustCompile(`(?i)(\d+)\s*F?\s*-\s*(\d+)$`)
)

// RoomNumber holds the structured data parsed from a room's display number.
type RoomNumber struct {
	Floor int
	Seq   int
}

// ParseRoomNumber extracts floor and sequence from a raw room number.
// Compact numbers keep the last two digits as the sequence ("1203" is floor 12, room 3).
func ParseRoomNumber(raw string) (RoomNumber, error) {
	// '#' is a separator, not noise: "5#12" must not become "512".
	s := strings.ReplaceAll(strings.TrimSpace(raw), "#", "-")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))

	if m := compactRe.FindStringSubmatch(s); m != nil {
		digits := m[1]
		floor, err := strconv.Atoi(digits[:len(digits)-2])
		if err != nil {
			return RoomNumber{}, fmt.Errorf("unable to parse floor from room number %q: %w", raw, err)
		}
		seq, _ := strconv.Atoi(digits[len(digits)-2:])
		if floor == 0 {
			return RoomNumber{}, fmt.Errorf("unable to parse floor from room number: %q", raw)
		}
		return RoomNumber{Floor: floor, Seq: seq}, nil
	}

	if m := dashedRe.FindStringSubmatch(s); m != nil {
		floor, errFloor := strconv.Atoi(m[1])
		seq, errSeq := strconv.Atoi(m[2])
		if errFloor == nil && errSeq == nil && floor > 0 {
			return RoomNumber{Floor: floor, Seq: seq}, nil
		}
	}

	return RoomNumber{}, fmt.Errorf("unable to parse room number: %q", raw)
}
