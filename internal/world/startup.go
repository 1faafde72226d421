package world

import (
	"fmt"

	"github.com/l1jgo/carnage/internal/core/object"
	"github.com/l1jgo/carnage/internal/data"
	"go.uber.org/zap"
)

// CreateStartupObjects populates the initial object list of a map. Car
// entries resolve by vehicle model; the rest index the style object table.
// Power-ups are not simulated and are skipped. It returns the number of
// objects created; any failure aborts the population.
func (m *Manager) CreateStartupObjects(list []data.StartupObject) (int, error) {
	if !m.style.IsLoaded() {
		return 0, fmt.Errorf("startup objects: %w", ErrStyleNotLoaded)
	}
	created, skipped := 0, 0
	for i, entry := range list {
		position, heading := entry.Position(), entry.Heading()

		if entry.IsCarObject() {
			if _, err := m.CreateVehicleByModel(position, heading, entry.Type); err != nil {
				return created, fmt.Errorf("startup object %d: %w", i, err)
			}
			created++
			continue
		}

		desc := m.style.Object(entry.Type)
		if desc == nil {
			return created, fmt.Errorf("startup object %d: type %d: %w", i, entry.Type, ErrNilDescriptor)
		}
		var err error
		switch desc.Class {
		case object.ClassDecoration:
			_, err = m.CreateDecoration(position, heading, desc)
		case object.ClassObstacle:
			_, err = m.CreateObstacle(position, heading, desc)
		case object.ClassPowerup:
			skipped++
			continue
		default:
			err = fmt.Errorf("%w: %q is %s", ErrClassMismatch, desc.Name, desc.Class)
		}
		if err != nil {
			return created, fmt.Errorf("startup object %d: %w", i, err)
		}
		created++
	}
	m.log.Info("startup objects created",
		zap.Int("created", created),
		zap.Int("skipped", skipped))
	return created, nil
}
