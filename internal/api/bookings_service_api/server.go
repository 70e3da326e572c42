package bookings_service_api

import (
	"context"

	"github.com/Domenick1991/hotelbooking/internal/api/grpcutil"
	"github.com/Domenick1991/hotelbooking/internal/service/booking"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "hotel.v1.BookingsService"

// BookingsServiceServer is the server side of hotel.v1.BookingsService.
// Requests that address a booking carry its reference as a StringValue.
type BookingsServiceServer interface {
	CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetBooking(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	CancelBooking(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	ConfirmPayment(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	CheckIn(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	CheckOut(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// Server adapts the booking use cases to gRPC.
type Server struct {
	bookings booking.BookingUseCase
}

func NewServer(bookings booking.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

func (s *Server) CreateBooking(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input booking.CreateBookingInput
	if err := grpcutil.FromStruct(req, &input); err != nil {
		return nil, err
	}
	created, err := s.bookings.CreateBooking(ctx, input)
	if err != nil {
		return nil, grpcutil.Error(err)
	}
	return grpcutil.ToStruct(created)
}

func (s *Server) GetBooking(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	found, err := s.bookings.GetBooking(ctx, req.GetValue())
	if err != nil {
		return nil, grpcutil.Error(err)
	}
	if found == nil {
		return nil, status.Errorf(codes.NotFound, "booking %s not found", req.GetValue())
	}
	return grpcutil.ToStruct(found)
}

func (s *Server) CancelBooking(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	result, err := s.bookings.CancelBooking(ctx, req.GetValue())
	if err != nil {
		return nil, grpcutil.Error(err)
	}
	return grpcutil.ToStruct(result)
}

func (s *Server) ConfirmPayment(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return respond(s.bookings.ConfirmPayment(ctx, req.GetValue()))
}

func (s *Server) CheckIn(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return respond(s.bookings.CheckIn(ctx, req.GetValue()))
}

func (s *Server) CheckOut(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return respond(s.bookings.CheckOut(ctx, req.GetValue()))
}

func respond(dto *booking.BookingDTO, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, grpcutil.Error(err)
	}
	return grpcutil.ToStruct(dto)
}

func Register(registrar grpc.ServiceRegistrar, srv BookingsServiceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

func byReference(call func(BookingsServiceServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error), method string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookingsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookingsServiceServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func createBookingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingsServiceServer).CreateBooking(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CreateBooking"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingsServiceServer).CreateBooking(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBooking", Handler: createBookingHandler},
		{MethodName: "GetBooking", Handler: byReference(BookingsServiceServer.GetBooking, "GetBooking")},
		{MethodName: "CancelBooking", Handler: byReference(BookingsServiceServer.CancelBooking, "CancelBooking")},
		{MethodName: "ConfirmPayment", Handler: byReference(BookingsServiceServer.ConfirmPayment, "ConfirmPayment")},
		{MethodName: "CheckIn", Handler: byReference(BookingsServiceServer.CheckIn, "CheckIn")},
		{MethodName: "CheckOut", Handler: byReference(BookingsServiceServer.CheckOut, "CheckOut")},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hotel/v1/bookings.proto",
}

var _ BookingsServiceServer = (*Server)(nil)
