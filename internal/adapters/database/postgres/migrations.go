package postgres

import "github.com/mainevents/server/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Event{},
	&entity.EventAttendee{},
	&entity.EventFavorite{},
	&entity.EventComment{},
	&entity.Review{},
	&entity.Notification{},
}
