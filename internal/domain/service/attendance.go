package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mainevents/server/internal/domain/common/errorz"
	"github.com/mainevents/server/internal/domain/entity"
	"github.com/mainevents/server/pkg/logger/types"
	qr "github.com/mainevents/server/pkg/qrcode"
	"github.com/xuri/excelize/v2"
)

type EventAttendeeStorage interface {
	Reserve(ctx context.Context, eventID string, userID string, quantity int, ticketCode string) (*entity.Event, error)
	Release(ctx context.Context, eventID string, userID string, quantity int) (*entity.Event, error)
	Get(ctx context.Context, eventID string, userID string) (*entity.EventAttendee, error)
	GetByEventID(ctx context.Context, eventID string) ([]entity.EventAttendee, error)
	CountByEventID(ctx context.Context, eventID string) (int64, error)
	GetUserEventIDs(ctx context.Context, userID string) ([]string, error)
}

type attendanceEventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
}

type attendanceUserStorage interface {
	GetAttendeesByEventID(ctx context.Context, eventID string) ([]entity.User, error)
}

type attendanceNotifier interface {
	NotifyTicketPurchase(ctx context.Context, event entity.Event, userID string, quantity int)
	NotifyNewAttendee(ctx context.Context, event entity.Event, quantity int)
	NotifyTicketRefund(ctx context.Context, event entity.Event, userID string, quantity int)
}

type AttendanceService struct {
	logger *types.Logger

	storage      EventAttendeeStorage
	eventStorage attendanceEventStorage
	userStorage  attendanceUserStorage
	notifier     attendanceNotifier
}

func NewAttendanceService(
	logger *types.Logger,
	storage EventAttendeeStorage,
	eventStorage attendanceEventStorage,
	userStorage attendanceUserStorage,
	notifier attendanceNotifier,
) *AttendanceService {
	return &AttendanceService{
		logger:       logger,
		storage:      storage,
		eventStorage: eventStorage,
		userStorage:  userStorage,
		notifier:     notifier,
	}
}

// Attend reserves quantity places on an event for a user. Preconditions
// are checked in order, each with its own error: the event must exist,
// be active, not be the caller's own, and have enough places left. The
// capacity guard itself runs inside the storage's locked reservation so
// concurrent calls cannot oversell.
func (s *AttendanceService) Attend(ctx context.Context, eventID string, userID string, quantity int) (*entity.Event, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != entity.EventStatusActive {
		return nil, errorz.ErrEventNotActive
	}
	if event.OrganizerID == userID {
		return nil, errorz.ErrOwnEvent
	}

	updated, err := s.storage.Reserve(ctx, eventID, userID, quantity, uuid.New().String())
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyTicketPurchase(ctx, *updated, userID, quantity)
	s.notifier.NotifyNewAttendee(ctx, *updated, quantity)
	return updated, nil
}

// Cancel releases the caller's full reservation on the event.
func (s *AttendanceService) Cancel(ctx context.Context, eventID string, userID string) (*entity.Event, error) {
	attendee, err := s.storage.Get(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.storage.Release(ctx, eventID, userID, attendee.Quantity)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyTicketRefund(ctx, *updated, userID, attendee.Quantity)
	return updated, nil
}

func (s *AttendanceService) Get(ctx context.Context, eventID string, userID string) (*entity.EventAttendee, error) {
	return s.storage.Get(ctx, eventID, userID)
}

func (s *AttendanceService) GetByEventID(ctx context.Context, eventID string) ([]entity.EventAttendee, error) {
	return s.storage.GetByEventID(ctx, eventID)
}

func (s *AttendanceService) GetUserEventIDs(ctx context.Context, userID string) ([]string, error) {
	return s.storage.GetUserEventIDs(ctx, userID)
}

// TicketQR renders the caller's ticket for the event as a PNG QR code.
func (s *AttendanceService) TicketQR(ctx context.Context, eventID string, userID string) ([]byte, error) {
	attendee, err := s.storage.Get(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	content := fmt.Sprintf("mainevents://ticket/%s/%s", eventID, attendee.TicketCode)
	return qr.Ticket.Generate(content)
}

// ExportAttendees builds an XLSX sheet with the event's attendee list for
// the organizer.
func (s *AttendanceService) ExportAttendees(ctx context.Context, eventID string, userID string) (*bytes.Buffer, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, errorz.ErrForbidden
	}

	attendees, err := s.storage.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	users, err := s.userStorage.GetAttendeesByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", "Name")
	_ = f.SetCellValue(sheet, "B1", "Email")
	_ = f.SetCellValue(sheet, "C1", "Quantity")
	_ = f.SetCellValue(sheet, "D1", "Ticket code")
	for i, attendee := range attendees {
		row := i + 2
		user := byID[attendee.UserID]
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), user.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), user.Email)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), attendee.Quantity)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), attendee.TicketCode)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
