package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scour/internal/common"
	"github.com/ternarybob/scour/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	sites  interfaces.SiteStorage
	tasks  interfaces.TaskStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		sites:  NewSiteStorage(db, logger),
		tasks:  NewTaskStorage(db, logger),
		logger: logger,
	}

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// Sites returns the site storage interface
func (m *Manager) Sites() interfaces.SiteStorage {
	return m.sites
}

// Tasks returns the task storage interface
func (m *Manager) Tasks() interfaces.TaskStorage {
	return m.tasks
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
