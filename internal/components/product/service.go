package product

import (
	"context"
	"fmt"

	"github.com/andrasnagy-data/productdesk/internal/shared/apiclient"
)

type (
	servicer interface {
		List(ctx context.Context, token string) ([]apiclient.Product, error)
		Submit(ctx context.Context, token string, d Draft, banner *apiclient.Upload) (string, error)
		Delete(ctx context.Context, token string, id int) (string, error)
	}

	productAPI interface {
		ListProducts(ctx context.Context, token string) ([]apiclient.Product, error)
		CreateProduct(ctx context.Context, token string, in apiclient.ProductInput) (*apiclient.Result, error)
		UpdateProduct(ctx context.Context, token string, id int, in apiclient.ProductInput) (*apiclient.Result, error)
		DeleteProduct(ctx context.Context, token string, id int) (*apiclient.Result, error)
	}

	service struct {
		api productAPI
	}
)

func NewService(client *apiclient.Client) servicer {
	return &service{api: client}
}

func (s *service) List(ctx context.Context, token string) ([]apiclient.Product, error) {
	return s.api.ListProducts(ctx, token)
}

// Submit creates or updates depending on the draft and returns the API's message.
func (s *service) Submit(ctx context.Context, token string, d Draft, banner *apiclient.Upload) (string, error) {
	var (
		res *apiclient.Result
		err error
	)
	switch d := d.(type) {
	case CreateDraft:
		res, err = s.api.CreateProduct(ctx, token, toInput(d.Fields, banner))
	case EditDraft:
		res, err = s.api.UpdateProduct(ctx, token, d.ID, toInput(d.Fields, banner))
	default:
		return "", fmt.Errorf("unknown draft %T", d)
	}
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (s *service) Delete(ctx context.Context, token string, id int) (string, error) {
	res, err := s.api.DeleteProduct(ctx, token, id)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}
