package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ledgerline/depositd/internal/application/deposit/notifier"
	"github.com/ledgerline/depositd/internal/domain/deposit"
	"github.com/ledgerline/depositd/internal/domain/shared/events"
	"github.com/ledgerline/depositd/internal/infrastructure/email"
	"github.com/ledgerline/depositd/internal/infrastructure/persistence/models"
	"github.com/ledgerline/depositd/internal/shared/biztime"
	"github.com/ledgerline/depositd/internal/shared/logger"
	"github.com/ledgerline/depositd/internal/shared/services/markdown"
)

const handlerTimeout = 30 * time.Second

// DepositCreatedHandler stores an in-app notification for every new deposit
// and, when a sender is configured, emails it to the owner.
type DepositCreatedHandler struct {
	db       *gorm.DB
	renderer *markdown.Renderer
	sender   email.Sender
	clock    biztime.Clock
	logger   logger.Interface
}

var _ events.EventHandler = (*DepositCreatedHandler)(nil)

// NewDepositCreatedHandler accepts a nil sender, which disables email.
func NewDepositCreatedHandler(
	db *gorm.DB,
	renderer *markdown.Renderer,
	sender email.Sender,
	clock biztime.Clock,
	logger logger.Interface,
) *DepositCreatedHandler {
	return &DepositCreatedHandler{
		db:       db,
		renderer: renderer,
		sender:   sender,
		clock:    clock,
		logger:   logger,
	}
}

func (h *DepositCreatedHandler) Handle(event events.DomainEvent) error {
	created, ok := event.(*deposit.CreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, deposit.EventTypeDepositCreated)
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	title := fmt.Sprintf("Deposit #%d received", created.DepositID)
	body := renderDepositCreated(created)
	content, err := h.renderer.Render(body)
	if err != nil {
		return err
	}

	var metadata datatypes.JSON
	if len(created.Metadata) > 0 {
		raw, err := json.Marshal(created.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode notification metadata: %w", err)
		}
		metadata = raw
	}

	row := &models.NotificationModel{
		UserID:    created.UserID,
		Action:    notifier.ActionDepositCreated,
		Title:     title,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: h.clock(),
	}
	if err := h.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if h.sender == nil {
		return nil
	}

	var owner models.UserModel
	if err := h.db.WithContext(ctx).Select("id", "email").First(&owner, created.UserID).Error; err != nil {
		return fmt.Errorf("failed to load notification recipient %d: %w", created.UserID, err)
	}

	if err := h.sender.Send(owner.Email, title, content, body); err != nil {
		return err
	}

	emailedAt := h.clock()
	if err := h.db.WithContext(ctx).Model(row).Update("emailed_at", emailedAt).Error; err != nil {
		h.logger.Warnw("failed to mark notification emailed", "notification_id", row.ID, "error", err)
	}

	h.logger.Infow("deposit notification emailed", "deposit_id", created.DepositID, "user_id", created.UserID)
	return nil
}

func renderDepositCreated(e *deposit.CreatedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Deposit #%d received\n\n", e.DepositID)
	fmt.Fprintf(&b, "We recorded your deposit of **%s %s**.\n\n", e.Amount, e.TokenSymbol)
	fmt.Fprintf(&b, "Current status: `%s`\n\n", e.Status)
	fmt.Fprintf(&b, "Recorded at %s UTC.\n", e.GetOccurredAt().UTC().Format(time.DateTime))
	return b.String()
}
