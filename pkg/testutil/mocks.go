package testutil

import "context"

// MockPacker is a mock implementation of the packer.Packer interface for testing.
type MockPacker struct {
	AvailableFunc func() error
	UnpackFunc    func(ctx context.Context, file string) (string, bool)
	PackFunc      func(ctx context.Context, folder string) (string, bool)
}

// Available runs the mock's availability check.
func (m *MockPacker) Available() error {
	if m.AvailableFunc != nil {
		return m.AvailableFunc()
	}
	return nil
}

// Unpack runs the mock's unpack function; by default it fails.
func (m *MockPacker) Unpack(ctx context.Context, file string) (string, bool) {
	if m.UnpackFunc != nil {
		return m.UnpackFunc(ctx, file)
	}
	return "", false
}

// Pack runs the mock's pack function; by default it fails.
func (m *MockPacker) Pack(ctx context.Context, folder string) (string, bool) {
	if m.PackFunc != nil {
		return m.PackFunc(ctx, folder)
	}
	return "", false
}
