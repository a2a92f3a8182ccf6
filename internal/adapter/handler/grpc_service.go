package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
)

const (
	CartServiceName = "storefront.cart.v1.CartService"

	methodGetCart        = "/" + CartServiceName + "/GetCart"
	methodAddToCart      = "/" + CartServiceName + "/AddToCart"
	methodRemoveFromCart = "/" + CartServiceName + "/RemoveFromCart"
	methodUpdateQuantity = "/" + CartServiceName + "/UpdateQuantity"
	methodClearCart      = "/" + CartServiceName + "/ClearCart"
)

type GetCartRequest struct{}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
	// Quantity defaults to one when zero.
	Quantity int `json:"quantity"`
}

type RemoveFromCartRequest struct {
	ProductID int `json:"product_id"`
}

type UpdateQuantityRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type ClearCartRequest struct{}

// CartRPCServer is implemented by GRPCHandler.
type CartRPCServer interface {
	GetCart(context.Context, *GetCartRequest) (*CartView, error)
	AddToCart(context.Context, *AddToCartRequest) (*CartView, error)
	RemoveFromCart(context.Context, *RemoveFromCartRequest) (*CartView, error)
	UpdateQuantity(context.Context, *UpdateQuantityRequest) (*CartView, error)
	ClearCart(context.Context, *ClearCartRequest) (*CartView, error)
}

// jsonCodec carries the plain Go message structs as JSON in place of
// generated protobuf types.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// ServerCodec must be passed to grpc.NewServer for the cart service.
func ServerCodec() grpc.ServerOption {
	return grpc.ForceServerCodec(jsonCodec{})
}

var CartServiceDesc = grpc.ServiceDesc{
	ServiceName: CartServiceName,
	HandlerType: (*CartRPCServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCart",
			Handler:    unaryHandler(methodGetCart, CartRPCServer.GetCart),
		},
		{
			MethodName: "AddToCart",
			Handler:    unaryHandler(methodAddToCart, CartRPCServer.AddToCart),
		},
		{
			MethodName: "RemoveFromCart",
			Handler:    unaryHandler(methodRemoveFromCart, CartRPCServer.RemoveFromCart),
		},
		{
			MethodName: "UpdateQuantity",
			Handler:    unaryHandler(methodUpdateQuantity, CartRPCServer.UpdateQuantity),
		},
		{
			MethodName: "ClearCart",
			Handler:    unaryHandler(methodClearCart, CartRPCServer.ClearCart),
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCartServer(s grpc.ServiceRegistrar, srv CartRPCServer) {
	s.RegisterService(&CartServiceDesc, srv)
}

func unaryHandler[Req any](fullMethod string, call func(CartRPCServer, context.Context, *Req) (*CartView, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CartRPCServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CartRPCServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CartClient is the typed client for CartService.
type CartClient struct {
	cc grpc.ClientConnInterface
}

func NewCartClient(cc grpc.ClientConnInterface) *CartClient {
	return &CartClient{cc: cc}
}

func (c *CartClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*CartView, error) {
	return c.invoke(ctx, methodGetCart, in, opts)
}

func (c *CartClient) AddToCart(ctx context.Context, in *AddToCartRequest, opts ...grpc.CallOption) (*CartView, error) {
	return c.invoke(ctx, methodAddToCart, in, opts)
}

func (c *CartClient) RemoveFromCart(ctx context.Context, in *RemoveFromCartRequest, opts ...grpc.CallOption) (*CartView, error) {
	return c.invoke(ctx, methodRemoveFromCart, in, opts)
}

func (c *CartClient) UpdateQuantity(ctx context.Context, in *UpdateQuantityRequest, opts ...grpc.CallOption) (*CartView, error) {
	return c.invoke(ctx, methodUpdateQuantity, in, opts)
}

func (c *CartClient) ClearCart(ctx context.Context, in *ClearCartRequest, opts ...grpc.CallOption) (*CartView, error) {
	return c.invoke(ctx, methodClearCart, in, opts)
}

func (c *CartClient) invoke(ctx context.Context, method string, in any, opts []grpc.CallOption) (*CartView, error) {
	out := new(CartView)
	callOpts := append([]grpc.CallOption{grpc.ForceCodec(jsonCodec{})}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}
