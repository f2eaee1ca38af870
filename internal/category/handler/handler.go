package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/category"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

const ServiceName = "CategoryService"

var _ transport.Server = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) ServiceDesc() *grpc.ServiceDesc {
	return transport.Service(ServiceName,
		transport.Method(ServiceName, "GetCategory", h.GetCategory),
		transport.Method(ServiceName, "ListCategories", h.ListCategories),
		transport.Method(ServiceName, "ListRootCategories", h.ListRootCategories),
		transport.Method(ServiceName, "ListChildren", h.ListChildren),
		transport.Method(ServiceName, "ResolveDescendantIds", h.ResolveDescendantIDs),
		transport.Method(ServiceName, "CreateCategory", h.CreateCategory),
		transport.Method(ServiceName, "UpdateCategory", h.UpdateCategory),
		transport.Method(ServiceName, "DeleteCategory", h.DeleteCategory),
	)
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	p, err := h.uc.GetCategory(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.CategoryResponse{Category: p})
}

func (h *CategoryHandler) ListCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := h.uc.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.CategoryListResponse{Categories: list})
}

func (h *CategoryHandler) ListRootCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	roots, err := h.uc.ListRootCategories(ctx)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.FlatListResponse{Categories: roots})
}

func (h *CategoryHandler) ListChildren(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.ListChildrenRequest
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	children, err := h.uc.ListChildren(ctx, in.ParentID)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.FlatListResponse{Categories: children})
}

func (h *CategoryHandler) ResolveDescendantIDs(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	ids, err := h.uc.ResolveDescendantIDs(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.DescendantIDsResponse{IDs: ids})
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.CreateCategoryInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	cat, err := h.uc.CreateCategory(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.FlatCategoryResponse{Category: cat})
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.UpdateCategoryInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	cat, err := h.uc.UpdateCategory(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.FlatCategoryResponse{Category: cat})
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteCategory(ctx, in.ID); err != nil {
		return nil, err
	}
	return transport.Encode(transport.Empty{})
}
