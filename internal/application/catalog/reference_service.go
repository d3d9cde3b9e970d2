package catalog

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/catalog"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReferenceService manages the reference data the intake form draws from:
// warehouses, products, units, and the quality and packaging parameter sets
type ReferenceService struct {
	products        catalog.ProductRepository
	warehouses      catalog.WarehouseRepository
	units           catalog.UnitRepository
	qualityParams   catalog.QualityParameterRepository
	packagingParams catalog.PackagingParameterRepository
	logger          *zap.Logger
}

// NewReferenceService creates a new reference data service
func NewReferenceService(
	products catalog.ProductRepository,
	warehouses catalog.WarehouseRepository,
	units catalog.UnitRepository,
	qualityParams catalog.QualityParameterRepository,
	packagingParams catalog.PackagingParameterRepository,
	logger *zap.Logger,
) *ReferenceService {
	return &ReferenceService{
		products:        products,
		warehouses:      warehouses,
		units:           units,
		qualityParams:   qualityParams,
		packagingParams: packagingParams,
		logger:          logger,
	}
}

// CreateProduct creates a catalog product
func (s *ReferenceService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Code, req.Name, catalog.ProductType(req.ProductType))
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.UnitID = req.UnitID

	taken, err := s.products.ExistsByCode(ctx, product.Code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "Product code is already in use")
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code))

	return ToProductResponse(product), nil
}

// UpdateProduct updates the mutable product fields
func (s *ReferenceService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.UnitID); err != nil {
		return nil, err
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product), nil
}

// GetProduct fetches one product
func (s *ReferenceService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// ListProducts lists products; productType narrows the list (intake asks for RAW)
func (s *ReferenceService) ListProducts(ctx context.Context, page, pageSize int, search, productType string) (*shared.Paginated[ProductResponse], error) {
	filter := listFilter(page, pageSize, search)
	if productType != "" {
		if !catalog.ProductType(productType).IsValid() {
			return nil, shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type must be RAW, PROCESSED, or PACKAGED")
		}
		filter.Filters["product_type"] = productType
	}

	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *ToProductResponse(&products[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DeleteProduct removes a product
func (s *ReferenceService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

// CreateWarehouse creates a warehouse
func (s *ReferenceService) CreateWarehouse(ctx context.Context, req *CreateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := catalog.NewWarehouse(req.Code, req.Name, req.Location)
	if err != nil {
		return nil, err
	}

	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	s.logger.Info("warehouse created",
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code))

	return ToWarehouseResponse(warehouse), nil
}

// UpdateWarehouse updates a warehouse
func (s *ReferenceService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req *UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := warehouse.Update(req.Name, req.Location); err != nil {
		return nil, err
	}
	if req.Active != nil && !*req.Active {
		warehouse.Deactivate()
	}

	if err := s.warehouses.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	return ToWarehouseResponse(warehouse), nil
}

// ListWarehouses lists warehouses
func (s *ReferenceService) ListWarehouses(ctx context.Context, page, pageSize int, search string) (*shared.Paginated[WarehouseResponse], error) {
	filter := listFilter(page, pageSize, search)

	warehouses, err := s.warehouses.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.warehouses.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		items = append(items, *ToWarehouseResponse(&warehouses[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// CreateUnit creates a unit of measure
func (s *ReferenceService) CreateUnit(ctx context.Context, req *CreateUnitRequest) (*UnitResponse, error) {
	unit, err := catalog.NewUnit(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return nil, err
	}

	return ToUnitResponse(unit), nil
}

// ListUnits lists units of measure
func (s *ReferenceService) ListUnits(ctx context.Context, page, pageSize int, search string) (*shared.Paginated[UnitResponse], error) {
	filter := listFilter(page, pageSize, search)

	units, err := s.units.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.units.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UnitResponse, 0, len(units))
	for i := range units {
		items = append(items, *ToUnitResponse(&units[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// CreateQualityParameter creates a quality parameter
func (s *ReferenceService) CreateQualityParameter(ctx context.Context, req *CreateQualityParameterRequest) (*QualityParameterResponse, error) {
	param, err := catalog.NewQualityParameter(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	param.SortOrder = req.SortOrder

	if err := s.qualityParams.Save(ctx, param); err != nil {
		return nil, err
	}

	return ToQualityParameterResponse(param), nil
}

// ListQualityParameters lists the active quality parameters in sort order;
// the intake form scores each of these
func (s *ReferenceService) ListQualityParameters(ctx context.Context) ([]QualityParameterResponse, error) {
	params, err := s.qualityParams.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]QualityParameterResponse, 0, len(params))
	for i := range params {
		items = append(items, *ToQualityParameterResponse(&params[i]))
	}
	return items, nil
}

// DeactivateQualityParameter removes a parameter from new quality checks
func (s *ReferenceService) DeactivateQualityParameter(ctx context.Context, id uuid.UUID) error {
	param, err := s.qualityParams.FindByID(ctx, id)
	if err != nil {
		return err
	}
	param.Deactivate()
	return s.qualityParams.Save(ctx, param)
}

// CreatePackagingParameter creates a packaging parameter
func (s *ReferenceService) CreatePackagingParameter(ctx context.Context, req *CreatePackagingParameterRequest) (*PackagingParameterResponse, error) {
	param, err := catalog.NewPackagingParameter(req.Name, catalog.ParameterKind(req.Kind), req.Options)
	if err != nil {
		return nil, err
	}
	param.SortOrder = req.SortOrder

	if err := s.packagingParams.Save(ctx, param); err != nil {
		return nil, err
	}

	return ToPackagingParameterResponse(param), nil
}

// ListPackagingParameters lists the active packaging parameters in sort order
func (s *ReferenceService) ListPackagingParameters(ctx context.Context) ([]PackagingParameterResponse, error) {
	params, err := s.packagingParams.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]PackagingParameterResponse, 0, len(params))
	for i := range params {
		items = append(items, *ToPackagingParameterResponse(&params[i]))
	}
	return items, nil
}

func listFilter(page, pageSize int, search string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 && pageSize <= 100 {
		filter.PageSize = pageSize
	}
	filter.Search = search
	return filter
}
