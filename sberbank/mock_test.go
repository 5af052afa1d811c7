package sberbank_test

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) Post(ctx context.Context, baseURL, path string, form url.Values) (any, error) {
	args := m.Called(ctx, baseURL, path, form)
	return args.Get(0), args.Error(1)
}
