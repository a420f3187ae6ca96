// Package messaging adapts Kafka messages onto deal desk use cases.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	pkgkafka "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/kafka"
)

// DealCloser is satisfied by *usecase.CloseDealUseCase.
type DealCloser interface {
	Execute(ctx context.Context, req dto.CloseDealRequest) (dto.DealResponse, error)
}

// DealClosedMessage is the CRM payload announcing a deal's commercial outcome.
type DealClosedMessage struct {
	DealID   uuid.UUID `json:"deal_id"`
	Won      bool      `json:"won"`
	ClosedBy uuid.UUID `json:"closed_by"`
}

// NewDealClosedHandler returns a consumer handler that closes deals.
// Malformed messages and deals that cannot close (unknown, already closed, not
// yet resolved) are permanent failures, which the consumer logs and commits.
// Any other failure is retried.
func NewDealClosedHandler(closer DealCloser, logger *slog.Logger) pkgkafka.Handler {
	return pkgkafka.DecodeJSON(func(ctx context.Context, payload DealClosedMessage, _ pkgkafka.Message) error {
		if payload.DealID == uuid.Nil {
			return pkgkafka.Permanent(errors.New("deal closed message has no deal_id"))
		}

		resp, err := closer.Execute(ctx, dto.CloseDealRequest{
			Actor:  dto.Actor{UserID: payload.ClosedBy},
			DealID: payload.DealID,
			Won:    payload.Won,
		})
		switch {
		case err == nil:
			logger.InfoContext(ctx, "deal closed from CRM", "deal_id", resp.ID, "status", resp.Status)
			return nil
		case errors.Is(err, domainerr.ErrNotFound),
			errors.Is(err, domainerr.ErrPreconditionFailed),
			errors.Is(err, domainerr.ErrValidation):
			return pkgkafka.Permanent(fmt.Errorf("close deal %s: %w", payload.DealID, err))
		default:
			return fmt.Errorf("close deal %s: %w", payload.DealID, err)
		}
	})
}
