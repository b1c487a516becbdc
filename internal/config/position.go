package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/bgrules/pkg/engine"
)

// positionFile is the YAML layout of a placement file:
//
//	placements:
//	  - point: {clockwise: 6, counterclockwise: 19}
//	    color: white
//	    quantity: 5
//	  - bar: true
//	    direction: counterclockwise
//	    color: black
//	    quantity: 1
type positionFile struct {
	Placements []engine.Placement `yaml:"placements"`
}

// ParsePlacements decodes placement records from YAML.
func ParsePlacements(data []byte) ([]engine.Placement, error) {
	var pf positionFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrInvalidPlacement, err)
	}
	if pf.Placements == nil {
		// An explicit empty board, not the starting position.
		pf.Placements = []engine.Placement{}
	}
	return pf.Placements, nil
}

// LoadBoard builds the board described by the YAML file at path, or the
// starting position for players when path is empty.
func LoadBoard(path string, white, black engine.Player) (engine.Board, error) {
	if path == "" {
		return engine.NewBoard(engine.StartingPlacements(white, black))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Board{}, fmt.Errorf("read position: %w", err)
	}
	placements, err := ParsePlacements(data)
	if err != nil {
		return engine.Board{}, fmt.Errorf("%s: %w", path, err)
	}
	return engine.NewBoard(placements)
}
