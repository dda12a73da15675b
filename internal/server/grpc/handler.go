package grpc

import (
	"context"

	"github.com/dmitrijs2005/campjournal/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func caller(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *Empty) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *SignUpRequest) (*models.Profile, error) {
	p, err := s.svc.Auth.SignUp(ctx, req.Email, req.Password, req.Username, req.FullName)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "signed up", "user_id", p.ID)
	return p, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *SignInRequest) (*models.TokenPair, error) {
	return s.svc.Auth.SignIn(ctx, req.Email, req.Password)
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*models.TokenPair, error) {
	return s.svc.Auth.Refresh(ctx, req.RefreshToken)
}

func (s *GRPCServer) SignOut(ctx context.Context, req *RefreshTokenRequest) (*Empty, error) {
	if err := s.svc.Auth.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}
