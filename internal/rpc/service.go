package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"

	"github.com/xtding233/gacha-arena/internal/arena"
	"github.com/xtding233/gacha-arena/internal/battle"
	"github.com/xtding233/gacha-arena/internal/catalog"
	"github.com/xtding233/gacha-arena/internal/combat"
	"github.com/xtding233/gacha-arena/internal/gacha"
	"github.com/xtding233/gacha-arena/internal/progression"
	"github.com/xtding233/gacha-arena/internal/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service adapts arena.Service to ArenaServer.
type Service struct {
	svc *arena.Service
}

func NewService(svc *arena.Service) *Service {
	return &Service{svc: svc}
}

func (s *Service) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.svc.Register(ctx, stringField(in, "username"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(p)
}

func (s *Service) DrawGacha(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	n := 1
	if v, ok := in.GetFields()["n"]; ok {
		f := v.GetNumberValue()
		if f != math.Trunc(f) {
			return nil, status.Errorf(codes.InvalidArgument, "n must be an integer")
		}
		n = int(f)
	}
	res, err := s.svc.DrawGacha(ctx, stringField(in, "player_id"), n)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func (s *Service) BeginEncounter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sess, err := s.svc.BeginEncounter(ctx, stringField(in, "player_id"), stringField(in, "member_id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(sess)
}

func (s *Service) AdvanceEncounter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	r, err := s.svc.AdvanceEncounter(ctx, stringField(in, "player_id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(r)
}

func (s *Service) SettleEncounter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.svc.SettleEncounter(ctx, stringField(in, "player_id"))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res)
}

func stringField(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

// toStruct converts v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(b); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// toStatus maps domain errors to gRPC codes.
func toStatus(err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, arena.ErrInvalidUsername),
		errors.Is(err, progression.ErrInvalidName),
		errors.Is(err, progression.ErrInvalidRollCount):
		code = codes.InvalidArgument
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, battle.ErrNoActiveEncounter):
		code = codes.NotFound
	case errors.Is(err, arena.ErrUsernameTaken):
		code = codes.AlreadyExists
	case errors.Is(err, storage.ErrConflict):
		code = codes.Aborted
	case errors.Is(err, progression.ErrInsufficientFunds),
		errors.Is(err, battle.ErrEncounterAlreadyActive),
		errors.Is(err, battle.ErrEncounterResolved),
		errors.Is(err, battle.ErrNotResolved),
		errors.Is(err, combat.ErrIneligibleCombatant),
		errors.Is(err, progression.ErrAlreadyRenamed),
		errors.Is(err, progression.ErrFullHealth),
		errors.Is(err, storage.ErrAlreadyExists):
		code = codes.FailedPrecondition
	case errors.Is(err, arena.ErrPersistence),
		errors.Is(err, gacha.ErrInvalidDistribution):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		code = codes.Internal
	}
	if code == codes.Internal || code == codes.Unavailable {
		log.Printf("grpc: %v", err)
	}
	return status.Error(code, err.Error())
}

var _ ArenaServer = (*Service)(nil)
