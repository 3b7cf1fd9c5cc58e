package client

import "github.com/stretchr/testify/mock"

// MockView is a mock implementation of View using testify/mock.
type MockView struct {
	mock.Mock
}

func (m *MockView) SetStatus(msg string)                 { m.Called(msg) }
func (m *MockView) ShowResult(text string)               { m.Called(text) }
func (m *MockView) HideResult()                          { m.Called() }
func (m *MockView) SetSubmit(enabled bool, label string) { m.Called(enabled, label) }
func (m *MockView) ResetForm()                           { m.Called() }
