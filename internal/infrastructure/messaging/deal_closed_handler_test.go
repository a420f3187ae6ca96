package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/domain/domainerr"
	pkgkafka "github.com/lexhallenberger/hearth-build-hub-sub001/pkg/kafka"
)

type mockCloser struct {
	executeFunc func(ctx context.Context, req dto.CloseDealRequest) (dto.DealResponse, error)
	calls       []dto.CloseDealRequest
}

func (m *mockCloser) Execute(ctx context.Context, req dto.CloseDealRequest) (dto.DealResponse, error) {
	m.calls = append(m.calls, req)
	if m.executeFunc != nil {
		return m.executeFunc(ctx, req)
	}
	return dto.DealResponse{ID: req.DealID, Status: "closed_won"}, nil
}

func TestDealClosedHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dealID, closedBy := uuid.New(), uuid.New()
	valid := []byte(`{"deal_id":"` + dealID.String() + `","won":true,"closed_by":"` + closedBy.String() + `"}`)

	tests := []struct {
		name      string
		value     []byte
		err       error
		wantErr   bool
		permanent bool
		wantCalls int
	}{
		{name: "closes deal", value: valid, wantCalls: 1},
		{name: "malformed json is dropped", value: []byte(`{`), wantErr: true, permanent: true, wantCalls: 0},
		{name: "missing deal id is dropped", value: []byte(`{"won":true}`), wantErr: true, permanent: true, wantCalls: 0},
		{name: "unknown deal is dropped", value: valid, err: domainerr.NotFoundf("deal not found"), wantErr: true, permanent: true, wantCalls: 1},
		{name: "deal not resolved is dropped", value: valid, err: domainerr.Preconditionf("deal is draft"), wantErr: true, permanent: true, wantCalls: 1},
		{name: "store failure is retried", value: valid, err: errors.New("connection reset"), wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closer := &mockCloser{}
			if tt.err != nil {
				closer.executeFunc = func(context.Context, dto.CloseDealRequest) (dto.DealResponse, error) {
					return dto.DealResponse{}, tt.err
				}
			}

			err := NewDealClosedHandler(closer, logger)(context.Background(), pkgkafka.Message{Value: tt.value})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.permanent, pkgkafka.IsPermanent(err))
				if tt.err != nil {
					assert.ErrorIs(t, err, tt.err)
				}
			} else {
				require.NoError(t, err)
			}
			require.Len(t, closer.calls, tt.wantCalls)
			if tt.wantCalls > 0 {
				assert.Equal(t, dealID, closer.calls[0].DealID)
				assert.True(t, closer.calls[0].Won)
				assert.Equal(t, closedBy, closer.calls[0].Actor.UserID)
			}
		})
	}
}
