package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/attribute"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/attribute/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

const ServiceName = "AttributeService"

var _ transport.Server = (*AttributeHandler)(nil)

type AttributeHandler struct {
	uc     attribute.UseCase
	logger logger.ZapLogger
}

func NewAttributeHandler(uc attribute.UseCase, log logger.ZapLogger) *AttributeHandler {
	return &AttributeHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AttributeHandler) ServiceDesc() *grpc.ServiceDesc {
	return transport.Service(ServiceName,
		transport.Method(ServiceName, "SearchCategoryAttributes", h.SearchCategoryAttributes),
		transport.Method(ServiceName, "GetCategoryAttribute", h.GetCategoryAttribute),
		transport.Method(ServiceName, "CreateCategoryAttribute", h.CreateCategoryAttribute),
		transport.Method(ServiceName, "UpdateCategoryAttribute", h.UpdateCategoryAttribute),
		transport.Method(ServiceName, "DeleteCategoryAttribute", h.DeleteCategoryAttribute),
		transport.Method(ServiceName, "SearchAttributeValues", h.SearchAttributeValues),
		transport.Method(ServiceName, "GetAttributeValue", h.GetAttributeValue),
		transport.Method(ServiceName, "CreateAttributeValue", h.CreateAttributeValue),
		transport.Method(ServiceName, "UpdateAttributeValue", h.UpdateAttributeValue),
		transport.Method(ServiceName, "DeleteAttributeValue", h.DeleteAttributeValue),
	)
}

func (h *AttributeHandler) SearchCategoryAttributes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.DefinitionFilter
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	defs, err := h.uc.SearchCategoryAttributes(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.DefinitionListResponse{Attributes: defs})
}

func (h *AttributeHandler) GetCategoryAttribute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	def, err := h.uc.GetCategoryAttribute(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.DefinitionResponse{Attribute: def})
}

func (h *AttributeHandler) CreateCategoryAttribute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.CreateDefinitionInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	def, err := h.uc.CreateCategoryAttribute(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.DefinitionResponse{Attribute: def})
}

func (h *AttributeHandler) UpdateCategoryAttribute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.UpdateDefinitionInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	def, err := h.uc.UpdateCategoryAttribute(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.DefinitionResponse{Attribute: def})
}

func (h *AttributeHandler) DeleteCategoryAttribute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteCategoryAttribute(ctx, in.ID); err != nil {
		return nil, err
	}
	return transport.Encode(transport.Empty{})
}

func (h *AttributeHandler) SearchAttributeValues(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.ValueFilter
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	values, err := h.uc.SearchAttributeValues(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.ValueListResponse{Values: values})
}

func (h *AttributeHandler) GetAttributeValue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	v, err := h.uc.GetAttributeValue(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.ValueResponse{Value: v})
}

func (h *AttributeHandler) CreateAttributeValue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.CreateValueInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	v, err := h.uc.CreateAttributeValue(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.ValueResponse{Value: v})
}

func (h *AttributeHandler) UpdateAttributeValue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.UpdateValueInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	v, err := h.uc.UpdateAttributeValue(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.ValueResponse{Value: v})
}

func (h *AttributeHandler) DeleteAttributeValue(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteAttributeValue(ctx, in.ID); err != nil {
		return nil, err
	}
	return transport.Encode(transport.Empty{})
}
