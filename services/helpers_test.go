package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/config"
	"github.com/Waqasktk456/whichFOOD-EXAM/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, mutate ...func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{
		Name:          "Sam",
		Email:         "sam@example.com",
		Password:      "x",
		Age:           30,
		Gender:        models.GenderMale,
		Height:        175,
		Weight:        80,
		ActivityLevel: models.ActivitySedentary,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendAlertEmail(_ context.Context, to, _, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+": "+message)
	return nil
}

type fakePusher struct {
	mu     sync.Mutex
	bodies []string
}

func (p *fakePusher) PushToUser(_ context.Context, _ uint, _, body string, _ map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, body)
	return nil
}

func quietBus(db *gorm.DB) *AlertBus {
	return NewAlertBus(db, NewRealtimeHub(), nil, nil, zerolog.Nop())
}
