package settings

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"f1seasonbot/pkg/model"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DefaultDSN keeps the store in memory for the life of the process.
const DefaultDSN = "file:f1seasonbot-settings?mode=memory&cache=shared"

// Mode is what season a user's commands default to.
type Mode struct {
	Historical bool
	Year       int
}

func (m Mode) String() string {
	if m.Historical {
		return fmt.Sprintf("📜 History mode, season %d", m.Year)
	}
	return "🏁 Current season mode"
}

// YearOr returns the pinned year in history mode and fallback otherwise.
func (m Mode) YearOr(fallback int) int {
	if m.Historical {
		return m.Year
	}
	return fallback
}

type Manager struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logrus.Logger
	now    func() time.Time
}

func NewManager(dsn string, logger *logrus.Logger) (*Manager, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		logger.WithError(err).Error("error opening settings database")
		return nil, err
	}
	// one connection keeps the in-memory database alive and serialised
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(buildCreateModesTable()); err != nil {
		logger.WithError(err).Error("error init settings database")
		db.Close()
		return nil, err
	}

	return &Manager{
		db:     db,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// SetHistoryMode pins year for userID. The year must be within the range
// the resolver accepts.
func (m *Manager) SetHistoryMode(userID int64, year int) error {
	if !model.ValidYear(year, m.now().Year()) {
		return fmt.Errorf("year %d: %w", year, model.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	query, args := buildUpsertModeCommand(userID, Mode{Historical: true, Year: year})
	if _, err := m.db.Exec(query, args...); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Error("error updating mode")
		return err
	}
	return nil
}

func (m *Manager) SetCurrentMode(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args := buildUpsertModeCommand(userID, Mode{})
	if _, err := m.db.Exec(query, args...); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Error("error updating mode")
		return err
	}
	return nil
}

// Mode returns the user's mode. Unknown users are in current season mode.
func (m *Manager) Mode(userID int64) (Mode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, args, read := buildSelectModeCommand(userID)
	rows, err := m.db.Query(query, args...)
	if err != nil {
		return Mode{}, err
	}
	return read(rows)
}
