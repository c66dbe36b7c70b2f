package service

import (
	"errors"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.NewInternalError(err)
}
