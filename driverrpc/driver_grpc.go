package driverrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// This file is handwritten to avoid protoc. It defines the equipment-facing
// contract every driver exposes to the platform.

const ServiceName = "nx.equipment.Driver"

const (
	methodGetDriverStatus     = "/" + ServiceName + "/GetDriverStatus"
	methodGetExceptions       = "/" + ServiceName + "/GetExceptions"
	methodGetEquipmentStatus  = "/" + ServiceName + "/GetEquipmentStatus"
	methodGetParameterData    = "/" + ServiceName + "/GetParameterData"
	methodGetParameterDataSet = "/" + ServiceName + "/GetParameterDataSet"
)

type DriverClient interface {
	GetDriverStatus(ctx context.Context, in *GetDriverStatusRequest, opts ...grpc.CallOption) (*GetStatusReply, error)
	GetExceptions(ctx context.Context, in *GetExceptionsRequest, opts ...grpc.CallOption) (*GetExceptionsReply, error)
	GetEquipmentStatus(ctx context.Context, in *GetEquipmentStatusRequest, opts ...grpc.CallOption) (*GetStatusReply, error)
	GetParameterData(ctx context.Context, in *GetParameterDataRequest, opts ...grpc.CallOption) (*GetParameterDataReply, error)
	GetParameterDataSet(ctx context.Context, in *GetParameterDataSetRequest, opts ...grpc.CallOption) (*GetParameterDataReply, error)
}

type driverClient struct{ cc grpc.ClientConnInterface }

func NewDriverClient(cc grpc.ClientConnInterface) DriverClient {
	return &driverClient{cc}
}

func (c *driverClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *driverClient) GetDriverStatus(ctx context.Context, in *GetDriverStatusRequest, opts ...grpc.CallOption) (*GetStatusReply, error) {
	out := new(GetStatusReply)
	if err := c.invoke(ctx, methodGetDriverStatus, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *driverClient) GetExceptions(ctx context.Context, in *GetExceptionsRequest, opts ...grpc.CallOption) (*GetExceptionsReply, error) {
	out := new(GetExceptionsReply)
	if err := c.invoke(ctx, methodGetExceptions, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *driverClient) GetEquipmentStatus(ctx context.Context, in *GetEquipmentStatusRequest, opts ...grpc.CallOption) (*GetStatusReply, error) {
	out := new(GetStatusReply)
	if err := c.invoke(ctx, methodGetEquipmentStatus, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *driverClient) GetParameterData(ctx context.Context, in *GetParameterDataRequest, opts ...grpc.CallOption) (*GetParameterDataReply, error) {
	out := new(GetParameterDataReply)
	if err := c.invoke(ctx, methodGetParameterData, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *driverClient) GetParameterDataSet(ctx context.Context, in *GetParameterDataSetRequest, opts ...grpc.CallOption) (*GetParameterDataReply, error) {
	out := new(GetParameterDataReply)
	if err := c.invoke(ctx, methodGetParameterDataSet, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// DriverServer is implemented by the driver process (server) and called by the
// platform (client).
type DriverServer interface {
	GetDriverStatus(context.Context, *GetDriverStatusRequest) (*GetStatusReply, error)
	GetExceptions(context.Context, *GetExceptionsRequest) (*GetExceptionsReply, error)
	GetEquipmentStatus(context.Context, *GetEquipmentStatusRequest) (*GetStatusReply, error)
	GetParameterData(context.Context, *GetParameterDataRequest) (*GetParameterDataReply, error)
	GetParameterDataSet(context.Context, *GetParameterDataSetRequest) (*GetParameterDataReply, error)
	mustEmbedUnimplementedDriverServer()
}

type UnimplementedDriverServer struct{}

func (UnimplementedDriverServer) GetDriverStatus(context.Context, *GetDriverStatusRequest) (*GetStatusReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDriverStatus not implemented")
}
func (UnimplementedDriverServer) GetExceptions(context.Context, *GetExceptionsRequest) (*GetExceptionsReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetExceptions not implemented")
}
func (UnimplementedDriverServer) GetEquipmentStatus(context.Context, *GetEquipmentStatusRequest) (*GetStatusReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEquipmentStatus not implemented")
}
func (UnimplementedDriverServer) GetParameterData(context.Context, *GetParameterDataRequest) (*GetParameterDataReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetParameterData not implemented")
}
func (UnimplementedDriverServer) GetParameterDataSet(context.Context, *GetParameterDataSetRequest) (*GetParameterDataReply, error) {
	return nil, status.Error(codes.Unimplemented, "method GetParameterDataSet not implemented")
}
func (UnimplementedDriverServer) mustEmbedUnimplementedDriverServer() {}

func RegisterDriverServer(s grpc.ServiceRegistrar, srv DriverServer) {
	s.RegisterService(&Driver_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc, running the
// server's interceptor chain when one is installed.
func unaryHandler[Req any, Resp any](fullMethod string, call func(DriverServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DriverServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DriverServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Driver_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DriverServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetDriverStatus",
			Handler:    unaryHandler(methodGetDriverStatus, DriverServer.GetDriverStatus),
		},
		{
			MethodName: "GetExceptions",
			Handler:    unaryHandler(methodGetExceptions, DriverServer.GetExceptions),
		},
		{
			MethodName: "GetEquipmentStatus",
			Handler:    unaryHandler(methodGetEquipmentStatus, DriverServer.GetEquipmentStatus),
		},
		{
			MethodName: "GetParameterData",
			Handler:    unaryHandler(methodGetParameterData, DriverServer.GetParameterData),
		},
		{
			MethodName: "GetParameterDataSet",
			Handler:    unaryHandler(methodGetParameterDataSet, DriverServer.GetParameterDataSet),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "nx_equipment_driver.proto",
}
