package taxonomy

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load a taxonomy from a JSON file, in the same shape that the platform's API returns it
func LoadTaxonomy(filename string) (*Taxonomy, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	t := &Taxonomy{}
	if err := json.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("Error loading taxonomy %v: %w", filename, err)
	}
	return t, nil
}

// Load a text file with class names on each line.
// Class ids are assigned in file order, starting at 0.
func LoadClassFile(filename string) (*ClassMap, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := &ClassMap{
		NameToID: map[string]int{},
		IDToName: map[int]string{},
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			if err := m.add(line, m.Len()); err != nil {
				return nil, fmt.Errorf("Error loading %v: %w", filename, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadClassMap loads either a taxonomy JSON file, or a plain class file (.txt)
func LoadClassMap(filename string) (*ClassMap, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".txt") {
		return LoadClassFile(filename)
	}
	t, err := LoadTaxonomy(filename)
	if err != nil {
		return nil, err
	}
	return t.Flatten()
}
