// File: internal/mocks/mocks.go
// Testify mocks for the page capability interfaces, shared by tests across
// the resolver, executor, and engine packages.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/loginprobe/api/schemas"
)

// -- Page Mock --

// MockPage mocks schemas.Page.
type MockPage struct {
	mock.Mock
}

var _ schemas.Page = (*MockPage)(nil)

func (m *MockPage) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockPage) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPage) Content(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPage) Find(ctx context.Context, selector string, timeout time.Duration) (schemas.ElementHandle, error) {
	args := m.Called(ctx, selector, timeout)
	if handle := args.Get(0); handle != nil {
		return handle.(schemas.ElementHandle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPage) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- ElementHandle Mock --

// MockElement mocks schemas.ElementHandle.
type MockElement struct {
	mock.Mock
}

var _ schemas.ElementHandle = (*MockElement)(nil)

func (m *MockElement) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockElement) Type(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockElement) Click(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- PageFactory Mock --

// MockPageFactory mocks schemas.PageFactory.
type MockPageFactory struct {
	mock.Mock
}

var _ schemas.PageFactory = (*MockPageFactory)(nil)

func (m *MockPageFactory) NewPage(ctx context.Context) (schemas.Page, error) {
	args := m.Called(ctx)
	if page := args.Get(0); page != nil {
		return page.(schemas.Page), args.Error(1)
	}
	return nil, args.Error(1)
}
