package grpc

// proto.go defines the gRPC server interface for dealdesk.v1.DealDeskService.
// Messages are the application DTOs carried by the JSON codec, so no
// generated message types are needed.

import (
	"context"

	grpclib "google.golang.org/grpc"

	"github.com/lexhallenberger/hearth-build-hub-sub001/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dealdesk.v1.DealDeskService"

// Empty is the request of methods that take no arguments.
type Empty struct{}

// DealDeskServiceServer is the server API for DealDeskService.
type DealDeskServiceServer interface {
	CreateDeal(context.Context, *dto.CreateDealRequest) (*dto.DealResponse, error)
	GetDeal(context.Context, *dto.GetDealRequest) (*dto.DealResponse, error)
	ListDeals(context.Context, *dto.ListDealsRequest) (*dto.ListDealsResponse, error)
	CloseDeal(context.Context, *dto.CloseDealRequest) (*dto.DealResponse, error)

	RecordScore(context.Context, *dto.RecordScoreRequest) (*dto.RecordScoreResponse, error)
	RecomputeDealScore(context.Context, *dto.DealRequest) (*dto.DealResponse, error)

	CreateScoringAttribute(context.Context, *dto.ScoringAttributeRequest) (*dto.ScoringAttributeResponse, error)
	UpdateScoringAttribute(context.Context, *dto.ScoringAttributeRequest) (*dto.ScoringAttributeResponse, error)
	DeactivateScoringAttribute(context.Context, *dto.DeactivateScoringAttributeRequest) (*dto.ScoringAttributeResponse, error)
	ListScoringAttributes(context.Context, *dto.ListScoringAttributesRequest) (*dto.ListScoringAttributesResponse, error)
	GetScoringThreshold(context.Context, *Empty) (*dto.ScoringThresholdResponse, error)
	SetScoringThreshold(context.Context, *dto.SetScoringThresholdRequest) (*dto.ScoringThresholdResponse, error)

	CreateDealSegment(context.Context, *dto.DealSegmentRequest) (*dto.DealSegmentResponse, error)
	UpdateDealSegment(context.Context, *dto.DealSegmentRequest) (*dto.DealSegmentResponse, error)
	ListDealSegments(context.Context, *dto.ListDealSegmentsRequest) (*dto.ListDealSegmentsResponse, error)
	PreviewSegment(context.Context, *dto.GetDealRequest) (*dto.PreviewSegmentResponse, error)

	RequestApproval(context.Context, *dto.RequestApprovalRequest) (*dto.ApprovalResponse, error)
	RespondApproval(context.Context, *dto.RespondApprovalRequest) (*dto.ApprovalResponse, error)
	EscalateApproval(context.Context, *dto.EscalateApprovalRequest) (*dto.ApprovalResponse, error)
	AutoRoute(context.Context, *dto.DealRequest) (*dto.AutoRouteResponse, error)
	ListDealApprovals(context.Context, *dto.GetDealRequest) (*dto.ListApprovalsResponse, error)
	ListPendingApprovals(context.Context, *dto.ListPendingApprovalsRequest) (*dto.ListApprovalsResponse, error)
	ListDealNotes(context.Context, *dto.GetDealRequest) (*dto.ListNotesResponse, error)

	BuildDealSummary(context.Context, *dto.GetDealRequest) (*dto.DealSummaryResponse, error)
	AnalyzeDeal(context.Context, *dto.GetDealRequest) (*dto.AnalyzeDealResponse, error)
}

// RegisterDealDeskServiceServer registers the DealDeskServiceServer with the gRPC server.
func RegisterDealDeskServiceServer(s grpclib.ServiceRegistrar, srv DealDeskServiceServer) {
	s.RegisterService(&dealDeskServiceDesc, srv)
}

var dealDeskServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DealDeskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("CreateDeal", DealDeskServiceServer.CreateDeal),
		unary("GetDeal", DealDeskServiceServer.GetDeal),
		unary("ListDeals", DealDeskServiceServer.ListDeals),
		unary("CloseDeal", DealDeskServiceServer.CloseDeal),
		unary("RecordScore", DealDeskServiceServer.RecordScore),
		unary("RecomputeDealScore", DealDeskServiceServer.RecomputeDealScore),
		unary("CreateScoringAttribute", DealDeskServiceServer.CreateScoringAttribute),
		unary("UpdateScoringAttribute", DealDeskServiceServer.UpdateScoringAttribute),
		unary("DeactivateScoringAttribute", DealDeskServiceServer.DeactivateScoringAttribute),
		unary("ListScoringAttributes", DealDeskServiceServer.ListScoringAttributes),
		unary("GetScoringThreshold", DealDeskServiceServer.GetScoringThreshold),
		unary("SetScoringThreshold", DealDeskServiceServer.SetScoringThreshold),
		unary("CreateDealSegment", DealDeskServiceServer.CreateDealSegment),
		unary("UpdateDealSegment", DealDeskServiceServer.UpdateDealSegment),
		unary("ListDealSegments", DealDeskServiceServer.ListDealSegments),
		unary("PreviewSegment", DealDeskServiceServer.PreviewSegment),
		unary("RequestApproval", DealDeskServiceServer.RequestApproval),
		unary("RespondApproval", DealDeskServiceServer.RespondApproval),
		unary("EscalateApproval", DealDeskServiceServer.EscalateApproval),
		unary("AutoRoute", DealDeskServiceServer.AutoRoute),
		unary("ListDealApprovals", DealDeskServiceServer.ListDealApprovals),
		unary("ListPendingApprovals", DealDeskServiceServer.ListPendingApprovals),
		unary("ListDealNotes", DealDeskServiceServer.ListDealNotes),
		unary("BuildDealSummary", DealDeskServiceServer.BuildDealSummary),
		unary("AnalyzeDeal", DealDeskServiceServer.AnalyzeDeal),
	},
	Streams: []grpclib.StreamDesc{},
}

// unary builds the method descriptor that decodes Req, runs the interceptor
// chain and dispatches to call.
func unary[Req, Resp any](method string, call func(DealDeskServiceServer, context.Context, *Req) (*Resp, error)) grpclib.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(DealDeskServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
