package ranking

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// RankingJobsServiceName is the fully qualified gRPC service name.
const RankingJobsServiceName = "telofundi.ranking.v1.RankingJobs"

const (
	methodRunDiscoveryScoring = "/" + RankingJobsServiceName + "/RunDiscoveryScoring"
	methodRunTrendingScoring  = "/" + RankingJobsServiceName + "/RunTrendingScoring"
)

// RankingJobsServer triggers the scoring jobs over gRPC. Requests and
// responses use well-known types so no generated code is needed.
type RankingJobsServer interface {
	RunDiscoveryScoring(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	RunTrendingScoring(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterRankingJobsServer(s grpc.ServiceRegistrar, srv RankingJobsServer) {
	s.RegisterService(&RankingJobs_ServiceDesc, srv)
}

func _RankingJobs_RunDiscoveryScoring_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RankingJobsServer).RunDiscoveryScoring(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRunDiscoveryScoring}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RankingJobsServer).RunDiscoveryScoring(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RankingJobs_RunTrendingScoring_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RankingJobsServer).RunTrendingScoring(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRunTrendingScoring}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RankingJobsServer).RunTrendingScoring(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// RankingJobs_ServiceDesc is the grpc.ServiceDesc for the RankingJobs service.
var RankingJobs_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RankingJobsServiceName,
	HandlerType: (*RankingJobsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunDiscoveryScoring", Handler: _RankingJobs_RunDiscoveryScoring_Handler},
		{MethodName: "RunTrendingScoring", Handler: _RankingJobs_RunTrendingScoring_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "telofundi/ranking/v1/jobs.proto",
}

// RankingJobsClient calls the RankingJobs service.
type RankingJobsClient struct {
	cc grpc.ClientConnInterface
}

func NewRankingJobsClient(cc grpc.ClientConnInterface) *RankingJobsClient {
	return &RankingJobsClient{cc: cc}
}

func (c *RankingJobsClient) RunDiscoveryScoring(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodRunDiscoveryScoring, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RankingJobsClient) RunTrendingScoring(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodRunTrendingScoring, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
