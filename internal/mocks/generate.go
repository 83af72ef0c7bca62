// Package mocks provides mock implementations for testing the core services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the port interfaces. The mocks are generated using go:generate directives
// and provide a fluent API for setting up test expectations. Hand-written
// doubles for the remaining ports live in the subpackages (auth, catalog,
// docstore).
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockCache := mocks.NewMockCacheRepository(ctrl)
//	mockCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", nil)
package mocks

// Generate mock for CacheRepository interface from internal/ports.
// This creates MockCacheRepository with methods: Set, Get, Delete
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/pbflix/neteflix-api/internal/ports CacheRepository
