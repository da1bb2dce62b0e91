package service_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"guestroom/internal/domains/booking/model"
	roomModel "guestroom/internal/domains/room/model"
	"guestroom/shared/cache"
	gDto "guestroom/shared/dto"
)

// fakeStore keeps rooms and bookings in memory. Transaction runs fn directly; the tests
// below never need a rollback of partial work.
type fakeStore struct {
	mu        sync.Mutex
	rooms     []roomModel.Room
	bookings  map[string][]model.Booking
	insertErr error
}

func newFakeStore(rooms ...roomModel.Room) *fakeStore {
	return &fakeStore{rooms: rooms, bookings: map[string][]model.Booking{}}
}

func filterValues(group gDto.FilterGroup) map[string]any {
	values := map[string]any{}

	for _, f := range group.Filters {
		if filter, ok := f.(gDto.Filter); ok {
			values[filter.Field] = filter.Value
		}
	}

	return values
}

func (f *fakeStore) roomByID(id string) roomModel.Room {
	for _, room := range f.rooms {
		if room.ID == id {
			return room
		}
	}

	return roomModel.Room{}
}

// Room repository.

type fakeRooms struct{ *fakeStore }

func (f fakeRooms) Insert(context.Context, roomModel.Room) error { return nil }
func (f fakeRooms) InsertTx(context.Context, *sqlx.Tx, roomModel.Room) error { return nil }
func (f fakeRooms) Exist(context.Context, gDto.FilterGroup) (bool, error) { return false, nil }
func (f fakeRooms) Count(context.Context, gDto.FilterGroup) (int, error) { return len(f.rooms), nil }
func (f fakeRooms) Update(context.Context, map[string]any, gDto.FilterGroup) error { return nil }
func (f fakeRooms) Delete(context.Context, gDto.FilterGroup) error { return nil }

func (f fakeRooms) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (roomModel.Room, error) {
	id, _ := filterValues(filter)[roomModel.FieldID].(string)

	return f.roomByID(id), nil
}

func (f fakeRooms) GetAll(context.Context, gDto.QueryParams, gDto.FilterGroup, ...string) ([]roomModel.Room, error) {
	return slices.Clone(f.rooms), nil
}

func (f fakeRooms) Transaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return fn(nil)
}

func (f fakeRooms) LockTx(_ context.Context, _ *sqlx.Tx, hostel, roomNo string) (roomModel.Room, error) {
	for _, room := range f.rooms {
		if room.HostelName == hostel && room.RoomNo == roomNo {
			return room, nil
		}
	}

	return roomModel.Room{}, nil
}

// Booking repository.

type fakeBookings struct{ *fakeStore }

func (f fakeBookings) Insert(context.Context, model.Booking) error { return nil }
func (f fakeBookings) Exist(context.Context, gDto.FilterGroup) (bool, error) { return false, nil }
func (f fakeBookings) Count(context.Context, gDto.FilterGroup) (int, error) { return 0, nil }
func (f fakeBookings) GetView(context.Context, gDto.FilterGroup) (model.RoomBooking, error) {
	return model.RoomBooking{}, nil
}

func (f fakeBookings) Get(context.Context, gDto.FilterGroup, ...string) (model.Booking, error) {
	return model.Booking{}, nil
}

func (f fakeBookings) InsertTx(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
	if f.insertErr != nil {
		return f.insertErr
	}

	f.bookings[booking.RoomID] = append(f.bookings[booking.RoomID], booking)

	return nil
}

func (f fakeBookings) InsertBulkTx(_ context.Context, _ *sqlx.Tx, bookings []model.Booking) error {
	for _, booking := range bookings {
		f.bookings[booking.RoomID] = append(f.bookings[booking.RoomID], booking)
	}

	return nil
}

func (f fakeBookings) UpdateTx(_ context.Context, _ *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error {
	values := filterValues(filter)
	roomID, _ := values[model.FieldRoomID].(string)
	id, _ := values[model.FieldID].(string)

	for i, booking := range f.bookings[roomID] {
		if booking.ID != id {
			continue
		}

		if to, ok := req[model.FieldToDate].(time.Time); ok {
			booking.ToDate = to
		}

		if status, ok := req[model.FieldStatus].(string); ok {
			booking.Status = status
		}

		f.bookings[roomID][i] = booking
	}

	return nil
}

func (f fakeBookings) DeleteTx(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) error {
	values := filterValues(filter)
	roomID, _ := values[model.FieldRoomID].(string)

	id, byID := values[model.FieldID].(string)
	if !byID {
		delete(f.bookings, roomID)

		return nil
	}

	f.bookings[roomID] = slices.DeleteFunc(f.bookings[roomID], func(b model.Booking) bool { return b.ID == id })

	return nil
}

func (f fakeBookings) ListByRoomTx(_ context.Context, _ *sqlx.Tx, roomID string) ([]model.Booking, error) {
	bookings := slices.Clone(f.bookings[roomID])
	slices.SortFunc(bookings, func(a, b model.Booking) int {
		return cmp.Or(a.FromDate.Compare(b.FromDate), cmp.Compare(a.ID, b.ID))
	})

	return bookings, nil
}

func (f fakeBookings) views() []model.RoomBooking {
	views := []model.RoomBooking{}

	for roomID, bookings := range f.bookings {
		room := f.roomByID(roomID)

		for _, booking := range bookings {
			views = append(views, model.RoomBooking{
				Booking:    booking,
				HostelName: room.HostelName,
				RoomNo:     room.RoomNo,
				RoomType:   room.RoomType,
			})
		}
	}

	return views
}

func (f fakeBookings) GetAllView(context.Context, gDto.QueryParams, gDto.FilterGroup) ([]model.RoomBooking, error) {
	return f.views(), nil
}

func (f fakeBookings) CountView(context.Context, gDto.FilterGroup) (int, error) {
	return len(f.views()), nil
}

func (f *fakeStore) count(roomID string) int {
	return len(f.bookings[roomID])
}

// fakeCache always misses. Writes are accepted from any goroutine.
type fakeCache struct{}

func (fakeCache) Save(context.Context, string, any, int) error { return nil }
func (fakeCache) Get(context.Context, string, any) error { return cache.Nil }
func (fakeCache) Delete(context.Context, string) error { return nil }
func (fakeCache) Clear(context.Context, string) error { return nil }
func (fakeCache) Increment(context.Context, string, int) (int, error) { return 0, nil }
