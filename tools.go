//go:build tools

package tools

// mockery v3 is used as an installed binary, so no blank import is needed.
// Regenerate the mocks listed in .mockery.yaml with: mockery
