package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
	"github.com/jhoicas/tms-settlements/pkg/logger"
	"github.com/jhoicas/tms-settlements/pkg/money"
)

const settlementTitle = "Settlement Generated"

// SettlementFanOut emite los avisos de una liquidación nueva: uno al conductor y uno
// por cada usuario contable (ADMIN o ACCOUNTANT) de la empresa. Best-effort.
type SettlementFanOut struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	log           *logger.Logger
	clock         func() time.Time
}

// NewSettlementFanOut construye el emisor de avisos.
func NewSettlementFanOut(users repository.UserRepository, notifications repository.NotificationRepository, log *logger.Logger) *SettlementFanOut {
	return &SettlementFanOut{users: users, notifications: notifications, log: log, clock: time.Now}
}

// SettlementGenerated crea las notificaciones. Los errores se registran y se descartan.
func (f *SettlementFanOut) SettlementGenerated(ctx context.Context, companyID string, driver *entity.Driver, s *entity.Settlement) {
	netPay := money.FormatUSD(s.NetPay)
	link := "/settlements/" + s.ID

	if driver.UserID == "" {
		f.log.Warn().Str("driver_id", driver.ID).Msg("conductor sin usuario vinculado, no se notifica")
	} else {
		f.create(ctx, &entity.Notification{
			UserID:  driver.UserID,
			Title:   settlementTitle,
			Message: fmt.Sprintf("Your settlement %s has been generated. Net pay: %s", s.SettlementNumber, netPay),
			Link:    link,
		})
	}

	recipients, err := f.users.ListByCompanyAndRoles(ctx, companyID, entity.AccountingRoles())
	if err != nil {
		f.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudieron listar usuarios contables")
		return
	}
	msg := fmt.Sprintf("Settlement %s generated for %s. Net pay: %s", s.SettlementNumber, driver.FullName(), netPay)
	for _, u := range recipients {
		f.create(ctx, &entity.Notification{
			UserID:  u.ID,
			Title:   settlementTitle,
			Message: msg,
			Link:    link,
		})
	}
}

func (f *SettlementFanOut) create(ctx context.Context, n *entity.Notification) {
	n.ID = uuid.New().String()
	n.Type = entity.NotificationTypeSystemAlert
	n.CreatedAt = f.clock()
	if err := f.notifications.Create(ctx, n); err != nil {
		f.log.Warn().Err(err).Str("user_id", n.UserID).Msg("no se pudo crear la notificación")
	}
}
