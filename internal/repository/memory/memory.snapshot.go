package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agrotech/fieldwatch/internal/models"
	nuts "github.com/vaudience/go-nuts"
	"gopkg.in/yaml.v3"
)

// Snapshot is the YAML layout for seeding a Store.
//
//	sectors:
//	  - id: norte
//	    name: Sector Norte
//	    humidity_min: 30
//	    temp_max: 40
//	    sensors:
//	      - {id: h1, name: Humedad Norte, kind: Humedad}
//	readings:
//	  - {sensor_id: h1, value: 10, age: 2h}
//
// A reading either carries an absolute timestamp or an age relative to load time.
// A sector without temp_max gets models.DefaultTempMax.
type Snapshot struct {
	Sectors  []snapshotSector  `yaml:"sectors"`
	Readings []snapshotReading `yaml:"readings"`
}

type snapshotSector struct {
	models.Sector `yaml:",inline"`
	Sensors       []models.Sensor `yaml:"sensors"`
}

// UnmarshalYAML fills temp_max with models.DefaultTempMax when the key is absent.
func (s *snapshotSector) UnmarshalYAML(node *yaml.Node) error {
	type plain snapshotSector
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if !hasKey(node, "temp_max") {
		p.TempMax = models.DefaultTempMax
	}
	*s = snapshotSector(p)
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	if node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

type snapshotReading struct {
	models.Reading `yaml:",inline"`
	Age            time.Duration `yaml:"age,omitempty"`
}

// LoadSnapshot decodes a YAML snapshot and saves its content into the store.
func (s *Store) LoadSnapshot(ctx context.Context, r io.Reader) error {
	var snap Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil && err != io.EOF {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	sectors, sensors, readings := s.Sectors(), s.Sensors(), s.Readings()
	now := s.now()
	nSensors := 0
	for i := range snap.Sectors {
		sector := snap.Sectors[i].Sector
		if err := sector.Validate(); err != nil {
			return fmt.Errorf("sector %q: %w", sector.ID, err)
		}
		if err := sectors.Save(ctx, &sector); err != nil {
			return fmt.Errorf("sector %q: %w", sector.ID, err)
		}
		for j := range snap.Sectors[i].Sensors {
			sensor := snap.Sectors[i].Sensors[j]
			sensor.SectorID = sector.ID
			if err := sensors.Save(ctx, &sensor); err != nil {
				return fmt.Errorf("sensor %q: %w", sensor.ID, err)
			}
			nSensors++
		}
	}

	for i := range snap.Readings {
		reading := snap.Readings[i].Reading
		if reading.Timestamp.IsZero() {
			reading.Timestamp = now.Add(-snap.Readings[i].Age)
		}
		if reading.ID == "" {
			reading.ID = nuts.NID("rd", 12)
		}
		if err := readings.Save(ctx, &reading); err != nil {
			return fmt.Errorf("reading for sensor %q: %w", reading.SensorID, err)
		}
	}

	nuts.L.Infof("[MemoryStore] Loaded snapshot: %d sectors, %d sensors, %d readings", len(snap.Sectors), nSensors, len(snap.Readings))
	return nil
}

// LoadSnapshotFile is LoadSnapshot for a file on disk.
func (s *Store) LoadSnapshotFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return s.LoadSnapshot(ctx, f)
}
