package openings

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Opening is a named position rendered as one diagram
type Opening struct {
	Name string `yaml:"name" json:"name"`
	FEN  string `yaml:"fen" json:"fen"`
}

// Defaults returns the built-in openings, White's pieces only
func Defaults() []Opening {
	return []Opening{
		{Name: "Ruy_Lopez_white", FEN: "8/8/8/1B2P3/8/5N2/PPPP1PPP/RNBQK2R w - - 0 1"},
		{Name: "Italian_Game_white", FEN: "8/8/8/4P3/2B5/5N2/PPPP1PPP/RNBQK2R w - - 0 1"},
		{Name: "Sicilian_Defense_white", FEN: "8/8/8/8/4P3/8/PPPP1PPP/RNBQKBNR w - - 0 1"},
		{Name: "Queens_Gambit_white", FEN: "8/8/8/8/2PP4/8/PP2PPPP/RNBQKBNR w - - 0 1"},
		{Name: "English_Opening_white", FEN: "8/8/8/8/2P5/8/PP1PPPPP/RNBQKBNR w - - 0 1"},
	}
}

type file struct {
	Openings []Opening `yaml:"openings"`
}

// LoadFile reads an opening table from YAML:
//
//	openings:
//	  - name: Queens_Gambit_white
//	    fen: 8/8/8/8/2PP4/8/PP2PPPP/RNBQKBNR w - - 0 1
func LoadFile(path string) ([]Opening, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read openings file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse openings file: %w", err)
	}

	if err := Validate(f.Openings); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Openings, nil
}

// Validate checks that the list is non-empty and names are present and unique
func Validate(list []Opening) error {
	if len(list) == 0 {
		return errors.New("no openings defined")
	}

	var errs []error
	seen := make(map[string]bool, len(list))
	for i, o := range list {
		switch {
		case o.Name == "":
			errs = append(errs, fmt.Errorf("opening %d has no name", i+1))
		case seen[o.Name]:
			errs = append(errs, fmt.Errorf("duplicate opening %q", o.Name))
		}
		if o.FEN == "" {
			errs = append(errs, fmt.Errorf("opening %q has no fen", o.Name))
		}
		seen[o.Name] = true
	}
	return errors.Join(errs...)
}
