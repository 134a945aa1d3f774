package ranking

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samdevvv/telofundi/internal/app"
	svcErr "github.com/samdevvv/telofundi/internal/errors"
)

// Registrar ties the RankingJobs service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the RankingJobs service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the RankingJobs implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	RegisterRankingJobsServer(s, &jobsServer{svc: NewRankingService(r.appCtx)})
}

// jobsServer adapts Service to RankingJobsServer.
type jobsServer struct {
	svc *Service
}

func (j *jobsServer) RunDiscoveryScoring(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := j.svc.RunDiscoveryScoring(ctx)
	if err != nil {
		j.svc.appCtx.Logger.Error("RunDiscoveryScoring failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return structpb.NewStruct(map[string]any{
		"updated": res.Updated,
		"failed":  res.Failed,
	})
}

func (j *jobsServer) RunTrendingScoring(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	res, err := j.svc.RunTrendingScoring(ctx)
	if err != nil {
		j.svc.appCtx.Logger.Error("RunTrendingScoring failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return structpb.NewStruct(map[string]any{
		"updated": res.Updated,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	})
}
