// seed provisiona el estado génesis del ledger: la cuenta admin inicial y las
// claves de capacidad de los cross-calls privilegiados. Es idempotente: corre
// tantas veces como haga falta sin duplicar nada.
//
// Uso: SEED_ADMIN_EMAIL=... SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
	"github.com/jhoicas/mercado-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/mercado-ledger/pkg/config"
	"github.com/jhoicas/mercado-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD son requeridos")
	}
	if len(password) < 8 {
		log.Fatal().Msg("SEED_ADMIN_PASSWORD debe tener al menos 8 caracteres")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	if err := seedGenesis(ctx, txRunner, log, email, password, cfg.Market.ModuleKey, cfg.Market.AdjustorKey); err != nil {
		log.Fatal().Err(err).Msg("seed del estado génesis")
	}

	log.Info().Msg("seed completado")
}

// seedGenesis crea o promueve la cuenta admin y fija las claves de capacidad
// que aún no estén configuradas, todo en una transacción.
func seedGenesis(ctx context.Context, txRunner registry.TxRunner, log *logger.Logger, email, password, moduleKey, adjustorKey string) error {
	return txRunner.RunRegistry(ctx, func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		admin, err := accounts.GetByEmail(email)
		if err != nil {
			return err
		}
		if admin == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			now := time.Now()
			admin = &entity.Account{
				Address:      uuid.New().String(),
				Email:        email,
				PasswordHash: string(hash),
				Role:         entity.RoleAdmin,
				Balance:      decimal.Zero,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := accounts.Create(admin); err != nil {
				return err
			}
			if _, err := ports.AppendEvent(events, entity.EventRoleGranted, map[string]any{
				"address": admin.Address,
				"role":    string(entity.RoleAdmin),
			}); err != nil {
				return err
			}
			log.Info().Str("address", admin.Address).Msg("cuenta admin génesis creada")
		} else if admin.Role != entity.RoleAdmin {
			if err := accounts.UpdateRole(admin.Address, entity.RoleAdmin, false); err != nil {
				return err
			}
			if _, err := ports.AppendEvent(events, entity.EventRoleGranted, map[string]any{
				"address": admin.Address,
				"role":    string(entity.RoleAdmin),
			}); err != nil {
				return err
			}
			log.Info().Str("address", admin.Address).Msg("cuenta existente promovida a admin")
		} else {
			log.Info().Str("address", admin.Address).Msg("cuenta admin ya existe")
		}

		// Claves de capacidad: solo se fijan si aún no están configuradas.
		for _, s := range []struct{ key, value string }{
			{repository.SettingOnboardingModule, moduleKey},
			{repository.SettingInventoryAdjustor, adjustorKey},
		} {
			if s.value == "" {
				continue
			}
			current, err := settings.Get(s.key)
			if err != nil {
				return err
			}
			if current != "" {
				continue
			}
			if err := settings.Set(s.key, s.value); err != nil {
				return err
			}
			log.Info().Str("key", s.key).Msg("clave de capacidad configurada")
		}
		return nil
	})
}
