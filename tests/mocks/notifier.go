package mocks

import (
	"context"

	"dapur-keluarga/internal/domain"

	"github.com/stretchr/testify/mock"
)

type Notifier struct {
	mock.Mock
}

func (m *Notifier) NotifyCommentCreated(ctx context.Context, comment *domain.Comment) {
	m.Called(ctx, comment)
}
