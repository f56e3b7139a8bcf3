package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/catalog"
	"github.com/invoicehub/backend/internal/domain/shared"
)

// ProductService handles product catalog use cases
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create registers a new product. SKUs are unique per organization.
func (s *ProductService) Create(ctx context.Context, orgID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, orgID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(orgID, req.SKU, req.Name, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.Unit != "" {
		if err := product.Update(req.Name, req.Description, req.Unit); err != nil {
			return nil, err
		}
	}
	if req.DefaultTaxRate != nil {
		if err := product.SetDefaultTaxRate(*req.DefaultTaxRate); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, orgID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns a filtered, paginated product listing
func (s *ProductService) List(ctx context.Context, orgID uuid.UUID, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "name"
	f.OrderDir = "asc"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.SortBy != "" {
		f.OrderBy = filter.SortBy
	}
	if filter.SortDir != "" {
		f.OrderDir = filter.SortDir
	}
	f.Search = filter.Search
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	result, err := s.productRepo.FindAllForOrg(ctx, orgID, f)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	return shared.Paginated[ProductResponse]{
		Items:      ToProductResponses(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListActive returns all active products, for invoice line pickers
func (s *ProductService) ListActive(ctx context.Context, orgID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, orgID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	unit := product.Unit
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if err := product.Update(name, description, unit); err != nil {
		return nil, err
	}

	if req.UnitPrice != nil {
		if err := product.SetUnitPrice(*req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.DefaultTaxRate != nil {
		if err := product.SetDefaultTaxRate(*req.DefaultTaxRate); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// Deactivate hides a product from new invoice lines
func (s *ProductService) Deactivate(ctx context.Context, orgID, id uuid.UUID) error {
	product, err := s.productRepo.FindByIDForOrg(ctx, orgID, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.productRepo.Save(ctx, product)
}

// Delete removes a product. Invoice lines keep their copied description and
// price, so deletion never touches issued invoices.
func (s *ProductService) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForOrg(ctx, orgID, id); err != nil {
		return err
	}
	return s.productRepo.DeleteForOrg(ctx, orgID, id)
}
