package main

import (
	"log/slog"

	"github.com/protomem/medicall/internal/account"
	"github.com/protomem/medicall/internal/database"
	"github.com/protomem/medicall/internal/marketplace"
	"github.com/protomem/medicall/internal/memstore"
	"github.com/protomem/medicall/internal/notify"
	"github.com/protomem/medicall/internal/reminder"
)

// _memoryDSN selects the in-process store; data is lost on exit.
const _memoryDSN = "memory"

type tokenStore interface {
	account.TokenStore
	reminder.TokenPurger
}

type applicationStore interface {
	marketplace.ApplicationStore
	reminder.ReminderSource
}

type stores struct {
	users         account.UserStore
	workers       account.WorkerProfileStore
	hospitals     account.HospitalProfileStore
	tokens        tokenStore
	shifts        marketplace.ShiftStore
	applications  applicationStore
	reviews       marketplace.ReviewStore
	notifications notify.Store
	preferences   notify.PreferenceStore

	close func() error
}

func (st stores) Close() error {
	if st.close == nil {
		return nil
	}
	return st.close()
}

func openStores(logger *slog.Logger, dsn string, automigrate bool) (stores, error) {
	if dsn == _memoryDSN {
		logger.Warn("using in-memory store")
		return memoryStores(memstore.New()), nil
	}

	db, err := database.New(logger, dsn, automigrate)
	if err != nil {
		return stores{}, err
	}

	return stores{
		users:         database.NewUserDAO(logger, db),
		workers:       database.NewWorkerProfileDAO(logger, db),
		hospitals:     database.NewHospitalProfileDAO(logger, db),
		tokens:        database.NewTokenDAO(logger, db),
		shifts:        database.NewShiftDAO(logger, db),
		applications:  database.NewApplicationDAO(logger, db),
		reviews:       database.NewReviewDAO(logger, db),
		notifications: database.NewNotificationDAO(logger, db),
		preferences:   database.NewPreferenceDAO(logger, db),
		close:         db.Close,
	}, nil
}

func memoryStores(m *memstore.Store) stores {
	return stores{
		users:         m.Users(),
		workers:       m.WorkerProfiles(),
		hospitals:     m.HospitalProfiles(),
		tokens:        m.Tokens(),
		shifts:        m.Shifts(),
		applications:  m.Applications(),
		reviews:       m.Reviews(),
		notifications: m.Notifications(),
		preferences:   m.Preferences(),
	}
}
