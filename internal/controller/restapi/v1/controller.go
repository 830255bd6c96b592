package v1

import (
	"github.com/andreyxaxa/Access-Gate/internal/usecase"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

type V1 struct {
	status usecase.StatusUseCase
	logger logger.Interface
}
