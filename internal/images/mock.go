package images

import (
	"context"

	"github.com/khabarhub/newsdesk/internal/utils"
)

// MockResolver provides a deterministic resolver for tests and for
// running without bucket credentials.
type MockResolver struct {
	BaseURL string
	Calls   []string
}

func NewMockResolver() *MockResolver {
	return &MockResolver{BaseURL: "https://cdn.invalid/images/"}
}

func (m *MockResolver) Resolve(ctx context.Context, raw string) (string, error) {
	m.Calls = append(m.Calls, raw)
	return m.BaseURL + utils.Hash([]byte(raw)), nil
}
