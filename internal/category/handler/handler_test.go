package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/dto"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/repository"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/category/usecase"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/storage/memory"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/transport/transporttest"
	"github.com/ValentynKoval/easybuy-catalog-service/pkg/logger"
)

type client struct {
	t    *testing.T
	call func(method string, in, out any) error
}

func newClient(t *testing.T) *client {
	uc := usecase.NewCategoryUseCase(repository.NewMemoryRepository(memory.NewDB()), nil, logger.NewNop(), nil)
	conn := transporttest.Dial(t, NewCategoryHandler(uc, logger.NewNop()))
	return &client{
		t: t,
		call: func(method string, in, out any) error {
			return transport.Invoke(context.Background(), conn, ServiceName, method, in, out)
		},
	}
}

func (c *client) create(name string, parent *string) string {
	c.t.Helper()
	var out dto.FlatCategoryResponse
	require.NoError(c.t, c.call("CreateCategory", dto.CreateCategoryInput{Name: name, ParentID: parent}, &out))
	return out.Category.ID
}

func TestCategoryService_HierarchyRoundTrip(t *testing.T) {
	c := newClient(t)

	el := c.create("Electronics", nil)
	mi := c.create("Mice", &el)
	wm := c.create("Wireless Mice", &mi)

	var got dto.CategoryResponse
	require.NoError(t, c.call("GetCategory", transport.ID{ID: wm}, &got))
	assert.Equal(t, "Electronics > Mice > Wireless Mice", got.Category.Path)
	assert.Equal(t, 2, got.Category.Level)
	require.NotNil(t, got.Category.Parent)
	assert.Equal(t, mi, got.Category.Parent.ID)

	var ids dto.DescendantIDsResponse
	require.NoError(t, c.call("ResolveDescendantIds", transport.ID{ID: el}, &ids))
	assert.ElementsMatch(t, []string{el, mi, wm}, ids.IDs)

	var roots dto.FlatListResponse
	require.NoError(t, c.call("ListRootCategories", transport.Empty{}, &roots))
	require.Len(t, roots.Categories, 1)

	var children dto.FlatListResponse
	require.NoError(t, c.call("ListChildren", dto.ListChildrenRequest{ParentID: el}, &children))
	require.Len(t, children.Categories, 1)
	assert.Equal(t, mi, children.Categories[0].ID)

	var all dto.CategoryListResponse
	require.NoError(t, c.call("ListCategories", transport.Empty{}, &all))
	assert.Len(t, all.Categories, 3)

	require.NoError(t, c.call("DeleteCategory", transport.ID{ID: el}, nil))
	err := c.call("GetCategory", transport.ID{ID: mi}, &got)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestCategoryService_ErrorCodes(t *testing.T) {
	c := newClient(t)
	el := c.create("Electronics", nil)

	tests := []struct {
		name   string
		method string
		in     any
		code   codes.Code
	}{
		{"missing id", "GetCategory", transport.Empty{}, codes.InvalidArgument},
		{"unknown id", "GetCategory", transport.ID{ID: "nope"}, codes.NotFound},
		{"blank name", "CreateCategory", dto.CreateCategoryInput{}, codes.InvalidArgument},
		{"unknown parent", "CreateCategory", dto.CreateCategoryInput{Name: "x", ParentID: strPtr("nope")}, codes.NotFound},
		{"self parent", "UpdateCategory", dto.UpdateCategoryInput{ID: el, Name: "x", ParentID: &el}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.call(tt.method, tt.in, nil)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func strPtr(s string) *string { return &s }
