package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T, secret string, expiration time.Duration) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     secret,
		Issuer:     "dealdesk-test",
		Expiration: expiration,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken_HMAC(t *testing.T) {
	svc := newTestJWTService(t, "test-secret", 15*time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "rep@example.com", []string{RoleSalesRep, RoleApprover})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "rep@example.com", claims.Email)
	assert.Equal(t, []string{RoleSalesRep, RoleApprover}, claims.Roles)
	assert.Equal(t, "dealdesk-test", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestGenerateAndValidateToken_RSA(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Issuer: "idp", Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM), Issuer: "idp"})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(uuid.New(), "", []string{RoleExecutive})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleExecutive))

	_, err = validator.GenerateToken(uuid.New(), "", nil)
	assert.ErrorIs(t, err, ErrValidationOnly)
}

func TestNewJWTService_PublicKeyFile(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "jwt.pub")
	require.NoError(t, os.WriteFile(path, pubPEM, 0o600))

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyFile: path})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(uuid.New(), "ops@example.com", []string{RoleAdmin})
	require.NoError(t, err)
	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)

	_, err = NewJWTService(JWTConfig{PublicKeyFile: filepath.Join(t.TempDir(), "missing.pub")})
	assert.Error(t, err)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "x"})
	assert.Error(t, err)
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		svc := newTestJWTService(t, "test-secret", -time.Hour)
		token, err := svc.GenerateToken(uuid.New(), "", []string{RoleSalesRep})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong signature", func(t *testing.T) {
		token, err := newTestJWTService(t, "secret-one", time.Minute).GenerateToken(uuid.New(), "", nil)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret-two", time.Minute).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		_, pubPEM, err := GenerateKeyPair()
		require.NoError(t, err)
		validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM)})
		require.NoError(t, err)

		token, err := newTestJWTService(t, "test-secret", time.Minute).GenerateToken(uuid.New(), "", nil)
		require.NoError(t, err)
		_, err = validator.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("missing user id", func(t *testing.T) {
		svc := newTestJWTService(t, "test-secret", time.Minute)
		token, err := svc.GenerateToken(uuid.Nil, "", nil)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorContains(t, err, "user_id")
	})
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleAdmin, RoleApprover}}

	assert.True(t, claims.HasRole(RoleAdmin))
	assert.True(t, claims.HasRole(RoleApprover))
	assert.False(t, claims.HasRole(RoleExecutive))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	expected := &Claims{UserID: uuid.New(), Roles: []string{RoleApprover}}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), expected))
	require.True(t, ok)
	assert.Same(t, expected, got)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t, "test-secret", time.Minute)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	userID := uuid.New()
	token, err := svc.GenerateToken(userID, "", []string{RoleApprover})
	require.NoError(t, err)

	var seen *Claims
	handler := func(ctx context.Context, _ any) (any, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/dealdesk.v1.DealDeskService/GetDeal"}

	t.Run("valid bearer token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
		resp, err := interceptor(ctx, nil, info, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		require.NotNil(t, seen)
		assert.Equal(t, userID, seen.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})
		_, err := interceptor(ctx, nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope"))
		_, err := interceptor(ctx, nil, info, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("skipped method", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		assert.NoError(t, err)
	})
}
