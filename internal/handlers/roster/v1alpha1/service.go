package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "roster.v1alpha1.RosterService"

// RosterServiceServer is the server API for the roster service
type RosterServiceServer interface {
	LookupSpecies(context.Context, *LookupSpeciesRequest) (*LookupSpeciesResponse, error)
	AddToRoster(context.Context, *AddToRosterRequest) (*AddToRosterResponse, error)
	ListRoster(context.Context, *ListRosterRequest) (*ListRosterResponse, error)
	StartSession(context.Context, *StartSessionRequest) (*SessionResponse, error)
	EndSession(context.Context, *SessionRequest) (*EndSessionResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetSession(context.Context, *SessionRequest) (*SessionResponse, error)
	OpenEntry(context.Context, *OpenEntryRequest) (*SessionResponse, error)
	CloseEntry(context.Context, *SessionRequest) (*SessionResponse, error)
	SelectSlot(context.Context, *SelectSlotRequest) (*SessionResponse, error)
	AssignMove(context.Context, *AssignMoveRequest) (*SessionResponse, error)
	RemoveMove(context.Context, *RemoveMoveRequest) (*SessionResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*SessionResponse, error)
	WatchSession(*SessionRequest, grpc.ServerStreamingServer[SessionResponse]) error
}

// ServiceDesc describes the roster service to grpc.Server. It is maintained
// by hand alongside RosterServiceServer.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RosterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("LookupSpecies", RosterServiceServer.LookupSpecies),
		unary("AddToRoster", RosterServiceServer.AddToRoster),
		unary("ListRoster", RosterServiceServer.ListRoster),
		unary("StartSession", RosterServiceServer.StartSession),
		unary("EndSession", RosterServiceServer.EndSession),
		unary("Logout", RosterServiceServer.Logout),
		unary("GetSession", RosterServiceServer.GetSession),
		unary("OpenEntry", RosterServiceServer.OpenEntry),
		unary("CloseEntry", RosterServiceServer.CloseEntry),
		unary("SelectSlot", RosterServiceServer.SelectSlot),
		unary("AssignMove", RosterServiceServer.AssignMove),
		unary("RemoveMove", RosterServiceServer.RemoveMove),
		unary("DeleteEntry", RosterServiceServer.DeleteEntry),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchSession",
			Handler:       watchSessionHandler,
			ServerStreams: true,
		},
	},
	Metadata: "roster/v1alpha1/roster.json",
}

// RegisterRosterServiceServer registers srv on s
func RegisterRosterServiceServer(s grpc.ServiceRegistrar, srv RosterServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the full gRPC method name for a roster method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](
	name string,
	call func(RosterServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RosterServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(RosterServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchSessionHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(SessionRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(RosterServiceServer).WatchSession(in, &grpc.GenericServerStream[SessionRequest, SessionResponse]{ServerStream: stream})
}

// RosterServiceClient is the client API for the roster service
type RosterServiceClient interface {
	LookupSpecies(ctx context.Context, in *LookupSpeciesRequest, opts ...grpc.CallOption) (*LookupSpeciesResponse, error)
	AddToRoster(ctx context.Context, in *AddToRosterRequest, opts ...grpc.CallOption) (*AddToRosterResponse, error)
	ListRoster(ctx context.Context, in *ListRosterRequest, opts ...grpc.CallOption) (*ListRosterResponse, error)
	StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	EndSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	GetSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	OpenEntry(ctx context.Context, in *OpenEntryRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	CloseEntry(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	SelectSlot(ctx context.Context, in *SelectSlotRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	AssignMove(ctx context.Context, in *AssignMoveRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	RemoveMove(ctx context.Context, in *RemoveMoveRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	WatchSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SessionResponse], error)
}

type rosterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRosterServiceClient creates a client that speaks the JSON codec
func NewRosterServiceClient(cc grpc.ClientConnInterface) RosterServiceClient {
	return &rosterServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rosterServiceClient) LookupSpecies(ctx context.Context, in *LookupSpeciesRequest, opts ...grpc.CallOption) (*LookupSpeciesResponse, error) {
	return invoke[LookupSpeciesResponse](ctx, c.cc, "LookupSpecies", in, opts)
}

func (c *rosterServiceClient) AddToRoster(ctx context.Context, in *AddToRosterRequest, opts ...grpc.CallOption) (*AddToRosterResponse, error) {
	return invoke[AddToRosterResponse](ctx, c.cc, "AddToRoster", in, opts)
}

func (c *rosterServiceClient) ListRoster(ctx context.Context, in *ListRosterRequest, opts ...grpc.CallOption) (*ListRosterResponse, error) {
	return invoke[ListRosterResponse](ctx, c.cc, "ListRoster", in, opts)
}

func (c *rosterServiceClient) StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "StartSession", in, opts)
}

func (c *rosterServiceClient) EndSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error) {
	return invoke[EndSessionResponse](ctx, c.cc, "EndSession", in, opts)
}

func (c *rosterServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, "Logout", in, opts)
}

func (c *rosterServiceClient) GetSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "GetSession", in, opts)
}

func (c *rosterServiceClient) OpenEntry(ctx context.Context, in *OpenEntryRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "OpenEntry", in, opts)
}

func (c *rosterServiceClient) CloseEntry(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "CloseEntry", in, opts)
}

func (c *rosterServiceClient) SelectSlot(ctx context.Context, in *SelectSlotRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "SelectSlot", in, opts)
}

func (c *rosterServiceClient) AssignMove(ctx context.Context, in *AssignMoveRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "AssignMove", in, opts)
}

func (c *rosterServiceClient) RemoveMove(ctx context.Context, in *RemoveMoveRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "RemoveMove", in, opts)
}

func (c *rosterServiceClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "DeleteEntry", in, opts)
}

func (c *rosterServiceClient) WatchSession(ctx context.Context, in *SessionRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[SessionResponse], error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], FullMethod("WatchSession"), opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SessionRequest, SessionResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
