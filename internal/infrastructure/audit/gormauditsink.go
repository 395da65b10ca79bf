package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/application/deposit/auditsink"
	"github.com/ledgerline/depositd/internal/application/deposit/listcache"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/db"
	"github.com/ledgerline/depositd/internal/shared/logger"
)

// GormAuditSink appends audit_logs rows and drops the affected user's cached
// deposit lists. Events are recorded after commit, so the lists are dropped
// first and regardless of whether the audit row is written.
type GormAuditSink struct {
	db     *gorm.DB
	cache  listcache.Cache
	clock  biztime.Clock
	logger logger.Interface
}

var _ auditsink.Sink = (*GormAuditSink)(nil)

func NewGormAuditSink(database *gorm.DB, cache listcache.Cache, clock biztime.Clock, logger logger.Interface) *GormAuditSink {
	return &GormAuditSink{
		db:     database,
		cache:  cache,
		clock:  clock,
		logger: logger,
	}
}

func (s *GormAuditSink) Record(ctx context.Context, event auditsink.Event) error {
	s.invalidate(ctx, event)

	before, err := toJSON(event.Before)
	if err != nil {
		return fmt.Errorf("failed to encode audit before snapshot: %w", err)
	}
	after, err := toJSON(event.After)
	if err != nil {
		return fmt.Errorf("failed to encode audit after snapshot: %w", err)
	}

	row := &models.AuditLogModel{
		EventID:      uuid.NewString(),
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		UserID:       event.UserID,
		BeforeData:   before,
		AfterData:    after,
		Description:  truncate(event.Description, 255),
		CreatedAt:    s.clock(),
	}

	if err := db.GetTxFromContext(ctx, s.db).Create(row).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *GormAuditSink) invalidate(ctx context.Context, event auditsink.Event) {
	if s.cache == nil || event.UserID == 0 || !mutates(event.Action) {
		return
	}
	if err := s.cache.Invalidate(ctx, event.UserID); err != nil {
		s.logger.Warnw("failed to invalidate deposit list cache",
			"user_id", event.UserID,
			"action", event.Action,
			"error", err,
		)
	}
}

func mutates(action string) bool {
	switch action {
	case auditsink.ActionCreateDeposit, auditsink.ActionUpdateDeposit, auditsink.ActionDeleteDeposit:
		return true
	}
	return false
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	return datatypes.JSON(raw), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
