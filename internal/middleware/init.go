package middleware

import (
	"database/sql"

	"github.com/Emannuh254/Forexpro/internal/config"
	"github.com/Emannuh254/Forexpro/internal/repository"
	"github.com/Emannuh254/Forexpro/internal/services"
)

var (
	cfg *config.Config

	userRepo     *repository.UserRepository
	txRepo       *repository.TransactionRepository
	botRepo      *repository.BotRepository
	referralRepo *repository.ReferralRepository

	exchangeSvc *services.ExchangeService
	ledgerSvc   *services.LedgerService
	botSvc      *services.BotService
	referralSvc *services.ReferralService
)

// Init construye repositorios y motores con la base y la configuración
// inyectadas. Debe llamarse antes de registrar las rutas.
func Init(db *sql.DB, c *config.Config) {
	cfg = c

	userRepo = repository.NewUserRepository(db)
	txRepo = repository.NewTransactionRepository(db)
	botRepo = repository.NewBotRepository(db)
	referralRepo = repository.NewReferralRepository(db)

	exchangeSvc = services.NewExchangeService(c)
	ledgerSvc = services.NewLedgerService(db)
	botSvc = services.NewBotService(db, c, exchangeSvc, ledgerSvc)
	referralSvc = services.NewReferralService(db, c, exchangeSvc, ledgerSvc)
}
