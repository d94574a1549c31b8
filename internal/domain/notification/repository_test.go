package notification

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) Create(ctx context.Context, n *Notification) error {
	ret := _m.Called(ctx, n)
	return ret.Error(0)
}

func (_m *MockRepository) FindByID(ctx context.Context, id int64) (*Notification, error) {
	ret := _m.Called(ctx, id)

	var r0 *Notification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Notification)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) FindByRecipient(ctx context.Context, rt RecipientType, recipientID int64, unreadOnly bool) ([]Notification, error) {
	ret := _m.Called(ctx, rt, recipientID, unreadOnly)

	var r0 []Notification
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Notification)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) CountUnread(ctx context.Context, rt RecipientType, recipientID int64) (int64, error) {
	ret := _m.Called(ctx, rt, recipientID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockRepository) MarkRead(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockRepository) MarkAllRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error) {
	ret := _m.Called(ctx, rt, recipientID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockRepository) DeleteRead(ctx context.Context, rt RecipientType, recipientID int64) (int64, error) {
	ret := _m.Called(ctx, rt, recipientID)
	return ret.Get(0).(int64), ret.Error(1)
}

var _ Repository = (*MockRepository)(nil)
