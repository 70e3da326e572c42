package rooms_service_api

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/api/grpcutil"
	"github.com/Domenick1991/hotelbooking/internal/service/rooms"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "hotel.v1.RoomsService"

type RoomsServiceServer interface {
	ListRooms(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	// CheckAvailability takes check_in, check_out, guest_count and an
	// optional room_type.
	CheckAvailability(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error)
}

// Server adapts the room use cases to gRPC.
type Server struct {
	rooms rooms.RoomUseCase
}

func NewServer(rooms rooms.RoomUseCase) *Server {
	return &Server{rooms: rooms}
}

func (s *Server) ListRooms(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	list, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, grpcutil.Error(err)
	}
	return grpcutil.ToList(list)
}

func (s *Server) CheckAvailability(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	var query rooms.AvailabilityQuery
	if err := grpcutil.FromStruct(req, &query); err != nil {
		return nil, err
	}
	free, err := s.rooms.CheckAvailability(ctx, query)
	if err != nil {
		return nil, grpcutil.Error(err)
	}
	return grpcutil.ToList(free)
}

func Register(registrar grpc.ServiceRegistrar, srv RoomsServiceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

func listRoomsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomsServiceServer).ListRooms(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListRooms"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RoomsServiceServer).ListRooms(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func checkAvailabilityHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomsServiceServer).CheckAvailability(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CheckAvailability"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RoomsServiceServer).CheckAvailability(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoomsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListRooms", Handler: listRoomsHandler},
		{MethodName: "CheckAvailability", Handler: checkAvailabilityHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hotel/v1/rooms.proto",
}

var _ RoomsServiceServer = (*Server)(nil)
