package ratelimit

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/mock"
)

type mockSession struct {
	id string
}

func (m *mockSession) SessionID() string {
	return m.id
}

func (*mockSession) NotificationChannel() chan<- mcp.JSONRPCNotification {
	return nil
}

func (*mockSession) Initialize() {}

func (*mockSession) Initialized() bool {
	return true
}

// toolHandlerMock stands in for a tool handler behind the rate limiter
type toolHandlerMock struct {
	mock.Mock
}

func newToolHandlerMock() *toolHandlerMock {
	m := new(toolHandlerMock)
	m.On("Handle", mock.Anything, mock.Anything).Return(mcp.NewToolResultText("success"), nil)
	return m
}

// Handle records the tool name and the session the call was made for
func (m *toolHandlerMock) Handle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tool := request.Params.Name
	args := m.Called(tool, getSessionID(ctx, tool))
	result, _ := args.Get(0).(*mcp.CallToolResult)
	return result, args.Error(1)
}

// callsFor counts the calls of tool by session that reached the handler
func (m *toolHandlerMock) callsFor(tool, session string) int {
	n := 0
	for _, call := range m.Calls {
		if call.Arguments.String(0) == tool && call.Arguments.String(1) == session {
			n++
		}
	}
	return n
}
