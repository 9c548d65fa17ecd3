package server

import (
	"context"
	"fmt"

	"hangout-api/core/config"
	"hangout-api/core/database"
	"hangout-api/core/logger"
	calendarRepo "hangout-api/modules/calendar/repository"
	hangoutRepo "hangout-api/modules/hangout/repository"
	notificationRepo "hangout-api/modules/notification/repository"
	personaRepo "hangout-api/modules/persona/repository"
)

// Stores groups the repositories of every module behind one storage driver.
type Stores struct {
	Hangouts      hangoutRepo.HangoutRepository
	Personas      personaRepo.PersonaRepository
	Calendar      calendarRepo.CalendarRepository
	Notifications notificationRepo.NotificationRepository

	db database.IDatabase
}

// OpenStores builds the repositories for cfg.Storage.Driver. The postgres
// driver also applies the schema.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Server:OpenStores:Memory", "message", "data is kept in process memory and lost on restart")
		return &Stores{
			Hangouts:      hangoutRepo.NewMemoryHangoutRepository(),
			Personas:      personaRepo.NewMemoryPersonaRepository(),
			Calendar:      calendarRepo.NewMemoryCalendarRepository(),
			Notifications: notificationRepo.NewMemoryNotificationRepository(),
		}, nil

	case "postgres":
		db, err := database.InitDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return &Stores{
			Hangouts:      hangoutRepo.NewHangoutRepository(db),
			Personas:      personaRepo.NewPersonaRepository(db),
			Calendar:      calendarRepo.NewCalendarRepository(db),
			Notifications: notificationRepo.NewNotificationRepository(db),
			db:            db,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
