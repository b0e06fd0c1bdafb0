package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const AdminServiceName = "playerkits.v1.AdminService"

// Admin method names. Requests and responses are google.protobuf.Struct.
const (
	MethodGive       = "Give"
	MethodGift       = "Gift"
	MethodExec       = "Exec"
	MethodConnect    = "Connect"
	MethodDisconnect = "Disconnect"
	MethodDrain      = "Drain"
)

// FullMethod returns the gRPC path of an admin method.
func FullMethod(method string) string {
	return "/" + AdminServiceName + "/" + method
}

// AdminServer is implemented by the kit admin service.
type AdminServer interface {
	Give(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Gift(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Exec(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Connect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Disconnect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Drain(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type adminCall func(AdminServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call adminCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AdminServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AdminServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AdminServiceDesc describes playerkits.v1.AdminService for grpc.Server.
var AdminServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(MethodGive, AdminServer.Give),
		unaryMethod(MethodGift, AdminServer.Gift),
		unaryMethod(MethodExec, AdminServer.Exec),
		unaryMethod(MethodConnect, AdminServer.Connect),
		unaryMethod(MethodDisconnect, AdminServer.Disconnect),
		unaryMethod(MethodDrain, AdminServer.Drain),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "playerkits/v1/admin.proto",
}

// AdminClient calls the admin service over an existing connection.
type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

// Call invokes method with fields as the request body.
func (c *AdminClient) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
