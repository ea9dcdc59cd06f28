package api

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/scalegate/internal/models"
	"github.com/miradorstack/scalegate/internal/services"
	"github.com/miradorstack/scalegate/internal/timescale"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "scalegate.v1.ScaleValidator"

	validateMethod    = "/" + ServiceName + "/Validate"
	commonScaleMethod = "/" + ServiceName + "/LeastCommonTimeScale"
)

// Validator is the domain surface exposed over the transports.
type Validator interface {
	Validate(ctx context.Context, req models.ValidationRequest) (models.ValidationReport, error)
	LeastCommonTimeScale(ctx context.Context, scales []timescale.TimeScale) (timescale.TimeScale, error)
}

// ScaleValidatorServer is the gRPC surface. Messages are google.protobuf.Struct
// documents shaped like the JSON wire types.
type ScaleValidatorServer interface {
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LeastCommonTimeScale(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ScaleValidatorServiceDesc describes the service for grpc.Server.RegisterService.
var ScaleValidatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScaleValidatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Validate", Handler: validateHandler},
		{MethodName: "LeastCommonTimeScale", Handler: commonScaleHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scalegate/v1/scalegate.proto",
}

// RegisterScaleValidatorServer registers srv with the gRPC server.
func RegisterScaleValidatorServer(s grpc.ServiceRegistrar, srv ScaleValidatorServer) {
	s.RegisterService(&ScaleValidatorServiceDesc, srv)
}

func validateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScaleValidatorServer).Validate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: validateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScaleValidatorServer).Validate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func commonScaleHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScaleValidatorServer).LeastCommonTimeScale(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: commonScaleMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScaleValidatorServer).LeastCommonTimeScale(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCHandler adapts a Validator to ScaleValidatorServer.
type GRPCHandler struct {
	validator Validator
}

// NewGRPCHandler constructs the gRPC handler.
func NewGRPCHandler(validator Validator) *GRPCHandler {
	return &GRPCHandler{validator: validator}
}

// Validate runs the scale checks. A report with findings is a successful
// response; only malformed requests and internal failures are gRPC errors.
func (h *GRPCHandler) Validate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if h.validator == nil {
		return nil, status.Error(codes.FailedPrecondition, "validator not configured")
	}

	var wire ValidateRequest
	if err := fromStruct(in, &wire); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	req, err := FromValidateRequest(wire)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	report, err := h.validator.Validate(ctx, req)
	if err != nil && !errors.Is(err, services.ErrRescalingFailure) {
		return nil, toStatus(err)
	}
	return toStruct(ToValidateResponse(report))
}

// LeastCommonTimeScale reconciles several time scales.
func (h *GRPCHandler) LeastCommonTimeScale(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if h.validator == nil {
		return nil, status.Error(codes.FailedPrecondition, "validator not configured")
	}

	var wire CommonScaleRequest
	if err := fromStruct(in, &wire); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scales, err := FromCommonScaleRequest(wire)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	common, err := h.validator.LeastCommonTimeScale(ctx, scales)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(CommonScaleResponse{TimeScale: FromTimeScale(common)})
}

// toStatus maps domain errors onto gRPC status codes.
func toStatus(err error) error {
	var rescaling *timescale.RescalingError
	switch {
	case errors.Is(err, timescale.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.As(err, &rescaling):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func fromStruct(in *structpb.Struct, out any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
