package rtree

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/kass/mercator-puzzle/pkg/models"
)

// Placement is the saved position of one country
type Placement struct {
	ID     string
	Center models.LatLng
	Fixed  bool
}

// IndexData represents the serializable form of the index
type IndexData struct {
	Placements []Placement `json:"placements"`
	Count      int         `json:"count"`
}

// Placements returns the current position of every indexed country.
func (ix *Index) Placements() []Placement {
	countries := ix.Countries()
	placements := make([]Placement, 0, len(countries))
	for _, c := range countries {
		placements = append(placements, Placement{
			ID:     c.ID,
			Center: c.CurrentCenter(),
			Fixed:  c.IsFixed(),
		})
	}
	return placements
}

// SaveToFile saves the positions of the indexed countries to a binary file
func (ix *Index) SaveToFile(filename string) error {
	placements := ix.Placements()
	data := IndexData{
		Placements: placements,
		Count:      len(placements),
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	return nil
}

// LoadFromFile restores saved positions onto the indexed countries and
// returns how many were restored. Placements of countries missing from the
// index are ignored.
func (ix *Index) LoadFromFile(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var data IndexData
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode data: %w", err)
	}

	restored := 0
	for _, p := range data.Placements {
		c, ok := ix.Get(p.ID)
		if !ok {
			continue
		}
		if p.Fixed {
			c.Fix()
		} else {
			c.SetCurrentCenter(p.Center)
		}
		ix.Update(c)
		restored++
	}

	return restored, nil
}
