package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Waqasktk456/whichFOOD-EXAM/models"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrAlertNotFound = errors.New("alert not found")

type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

type AlertMailer interface {
	SendAlertEmail(ctx context.Context, to, name, message string) error
}

// AlertBus persists alerts and fans them out to open sockets, push
// endpoints and e-mail. Delivery failures are logged, never returned.
type AlertBus struct {
	db   *gorm.DB
	hub  *RealtimeHub
	push Pusher
	mail AlertMailer
	log  zerolog.Logger
}

// NewAlertBus accepts nil hub, push or mail to skip that channel.
func NewAlertBus(db *gorm.DB, hub *RealtimeHub, push Pusher, mail AlertMailer, log zerolog.Logger) *AlertBus {
	return &AlertBus{db: db, hub: hub, push: push, mail: mail, log: log}
}

type AlertInput struct {
	Level    models.AlertLevel
	Source   string
	SourceID uint
	Message  string
}

func (b *AlertBus) Emit(ctx context.Context, userID uint, in AlertInput) (*models.Alert, error) {
	a := &models.Alert{
		UserID:    userID,
		Level:     in.Level,
		Source:    in.Source,
		SourceID:  in.SourceID,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("save alert: %w", err)
	}

	log := b.log.With().Uint("user_id", userID).Uint("alert_id", a.ID).Logger()
	if b.hub != nil {
		if _, err := b.hub.BroadcastAlert(userID, map[string]any{"kind": "alert.created", "alert": a}); err != nil {
			log.Warn().Err(err).Msg("alert broadcast failed")
		}
	}
	if b.push != nil {
		data := map[string]string{"source": a.Source, "alertId": fmt.Sprintf("%d", a.ID)}
		if err := b.push.PushToUser(ctx, userID, "New Alert", a.Message, data); err != nil {
			log.Warn().Err(err).Msg("alert push failed")
		}
	}
	if b.mail != nil && a.Level == models.AlertWarning {
		var u models.User
		if err := b.db.WithContext(ctx).Select("id", "name", "email").First(&u, userID).Error; err != nil {
			log.Warn().Err(err).Msg("alert email skipped: user lookup failed")
		} else if err := b.mail.SendAlertEmail(ctx, u.Email, u.Name, a.Message); err != nil {
			log.Warn().Err(err).Msg("alert email failed")
		}
	}
	return a, nil
}

func (b *AlertBus) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Alert, error) {
	q := b.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var alerts []models.Alert
	err := q.Order("created_at DESC").Order("id DESC").Find(&alerts).Error
	return alerts, err
}

func (b *AlertBus) MarkRead(ctx context.Context, userID, alertID uint) error {
	res := b.db.WithContext(ctx).Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlertNotFound
	}
	return nil
}
