package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/goods/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

const ServiceName = "GoodsService"

var _ transport.Server = (*GoodsHandler)(nil)

type GoodsHandler struct {
	uc     goods.UseCase
	logger logger.ZapLogger
}

func NewGoodsHandler(uc goods.UseCase, log logger.ZapLogger) *GoodsHandler {
	return &GoodsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *GoodsHandler) ServiceDesc() *grpc.ServiceDesc {
	return transport.Service(ServiceName,
		transport.Method(ServiceName, "GetGoods", h.GetGoods),
		transport.Method(ServiceName, "SearchGoods", h.SearchGoods),
		transport.Method(ServiceName, "CreateGoods", h.CreateGoods),
		transport.Method(ServiceName, "UpdateGoods", h.UpdateGoods),
		transport.Method(ServiceName, "DeleteGoods", h.DeleteGoods),
		transport.Method(ServiceName, "SearchGoodsImages", h.SearchGoodsImages),
		transport.Method(ServiceName, "CreateGoodsImage", h.CreateGoodsImage),
		transport.Method(ServiceName, "DeleteGoodsImage", h.DeleteGoodsImage),
	)
}

func (h *GoodsHandler) GetGoods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	g, err := h.uc.GetGoods(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.GoodsResponse{Goods: g})
}

func (h *GoodsHandler) SearchGoods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.SearchCriteria
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	list, err := h.uc.SearchGoods(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.GoodsListResponse{Goods: list})
}

func (h *GoodsHandler) CreateGoods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.CreateGoodsInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	g, err := h.uc.CreateGoods(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.GoodsResponse{Goods: g})
}

func (h *GoodsHandler) UpdateGoods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.UpdateGoodsInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	g, err := h.uc.UpdateGoods(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.GoodsResponse{Goods: g})
}

func (h *GoodsHandler) DeleteGoods(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteGoods(ctx, in.ID); err != nil {
		return nil, err
	}
	return transport.Encode(transport.Empty{})
}

func (h *GoodsHandler) SearchGoodsImages(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.ImageFilter
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	images, err := h.uc.SearchGoodsImages(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.ImageListResponse{Images: images})
}

func (h *GoodsHandler) CreateGoodsImage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in dto.CreateImageInput
	if err := transport.Decode(req, &in); err != nil {
		return nil, err
	}

	img, err := h.uc.CreateGoodsImage(ctx, &in)
	if err != nil {
		return nil, err
	}
	return transport.Encode(dto.ImageResponse{Image: img})
}

func (h *GoodsHandler) DeleteGoodsImage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in transport.ID
	if err := transport.Bind(req, &in); err != nil {
		return nil, err
	}

	if err := h.uc.DeleteGoodsImage(ctx, in.ID); err != nil {
		return nil, err
	}
	return transport.Encode(transport.Empty{})
}
